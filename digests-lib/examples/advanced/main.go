// ABOUTME: Advanced example showing custom configuration and advanced features
// ABOUTME: Demonstrates dependency injection, a custom surface, settings changes and metrics

package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"page-digest/core/domain"
	apperrors "page-digest/core/errors"
	"page-digest/core/settings"
	"page-digest/core/summarize"
	digests "page-digest/digests-lib"
	"page-digest/infrastructure/logger/standard"
	"page-digest/infrastructure/metrics"
	"page-digest/infrastructure/page"
)

// printSurface writes everything the pipeline renders to stdout
type printSurface struct{}

func (printSurface) RenderStatus(v domain.StatusView) {
	fmt.Printf("  [status] %s (digest=%v restore=%v)\n", v.Label, v.DigestEnabled, v.RestoreEnabled)
}

func (printSurface) RenderResult(text string, mode domain.DigestMode, hasContainer bool) {
	fmt.Printf("  [%s digest, in place=%v]\n%s\n", mode, hasContainer, text)
}

func (printSurface) RenderError(kind apperrors.Kind) {
	fmt.Printf("  [error] %s\n", apperrors.UserMessage(kind))
}

func (printSurface) ClearResult() {
	fmt.Println("  [cleared]")
}

func (printSurface) RequestCredential() {
	fmt.Println("  [prompt] set DIGEST_API_KEY to continue")
}

func main() {
	target := "https://go.dev/blog/go1.23"
	if len(os.Args) > 1 {
		target = os.Args[1]
	}

	// Example 1: Create client with custom configuration
	fmt.Println("=== Custom Configuration ===")

	logger := standard.New(standard.Options{Level: "info", Format: "json"})
	registry := prometheus.NewRegistry()

	backend := summarize.DefaultConfig()
	backend.Model = "gpt-4.1-mini"
	backend.Timeout = 30 * time.Second

	client, err := digests.NewClient(
		// Persist cache, usage and settings in SQLite
		digests.WithStorageOption(digests.StorageOption{
			Type:     digests.StorageTypeSQLite,
			FilePath: "./page_digest.db",
		}),
		digests.WithLogger(logger),
		digests.WithMetrics(metrics.New(registry)),
		digests.WithSurface(printSurface{}),
		digests.WithBackend(backend),
		digests.WithCredential(os.Getenv("DIGEST_API_KEY")),
		digests.WithReadabilityFallback(true),
		digests.WithFlushInterval(2*time.Second),
	)
	if err != nil {
		log.Fatal("Failed to create client:", err)
	}
	defer client.Close()

	// Example 2: Domain policy
	fmt.Println("\n=== Domain Policy ===")
	ctx := context.Background()
	_, err = client.UpdateSettings(ctx, settings.SetPolicy(domain.DomainPolicy{
		Mode:     domain.PolicyDeny,
		DenyList: []string{"*.bank.example", "/^mail\\./"},
	}))
	if err != nil {
		log.Fatal("Failed to update policy:", err)
	}
	for _, host := range []string{"go.dev", "online.bank.example", "mail.example.com"} {
		fmt.Printf("%s disabled: %v\n", host, client.IsDisabled(host))
	}

	// Example 3: Load a live page and digest it
	fmt.Println("\n=== Live Page ===")
	loadCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	doc, err := page.NewLoader(logger, page.WithUserAgent("PageDigestExample/1.0")).Load(loadCtx, target)
	if err != nil {
		log.Fatal("Failed to load page:", err)
	}
	host := ""
	if u, err := url.Parse(target); err == nil {
		host = u.Hostname()
	}

	session, err := client.Open(ctx, host, doc)
	if err != nil {
		log.Fatal("Failed to open page:", err)
	}
	if _, err := session.RequestDigest(ctx, digests.ModeLarge); err != nil {
		fmt.Printf("Digest failed: %v\n", err)
	}

	// Example 4: Digest only a selection
	fmt.Println("\n=== Selection ===")
	selection := "Go 1.23 adds range-over-func iterators, so a function with the right signature can drive " +
		"a for-range loop directly, and the iter package names the common shapes."
	if s, err := client.Open(ctx, host, doc.WithSelection(selection)); err == nil {
		_, _ = s.RequestDigest(ctx, digests.ModeSmall)
	}

	// Example 5: A level change invalidates cached digests
	fmt.Println("\n=== Simplification Level ===")
	fmt.Printf("Cached digests before: %d\n", client.CacheSize())
	if _, err := client.UpdateSettings(ctx, settings.SetLevel(domain.LevelConservative)); err != nil {
		log.Printf("Failed to change level: %v\n", err)
	}
	fmt.Printf("Cached digests after: %d\n", client.CacheSize())

	// Example 6: Usage and metrics
	fmt.Println("\n=== Usage ===")
	report := client.Usage()
	fmt.Printf("%d calls, $%.6f at %s pricing\n", report.Counters.Calls, report.Cost, report.Pricing.Model)

	families, err := registry.Gather()
	if err == nil {
		for _, family := range families {
			fmt.Printf("- %s (%d series)\n", family.GetName(), len(family.GetMetric()))
		}
	}

	fmt.Println("\nDone!")
}
