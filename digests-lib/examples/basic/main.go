// ABOUTME: Basic example showing a simple page digest with the Digests library
// ABOUTME: Demonstrates minimal configuration and common use cases

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	digests "page-digest/digests-lib"
	"page-digest/infrastructure/dom"
)

const page = `<html><head><title>Why the Tide Turns Twice a Day</title></head><body>
<nav><a href="/">Home</a></nav>
<article>
  <h1>Why the Tide Turns Twice a Day</h1>
  <p>The moon pulls on the oceans facing it, raising a bulge of water that follows it around the planet.</p>
  <p>A second bulge forms on the far side, where the pull is weakest and the water lags behind the solid earth.</p>
  <p>As the earth rotates beneath both bulges, most coastlines pass through two high tides and two low tides each day.</p>
</article>
<footer>Copyright</footer>
</body></html>`

func main() {
	// Example 1: Create a client with default configuration.
	// The backend key comes from the environment and is never stored.
	client, err := digests.NewClient(digests.WithCredential(os.Getenv("DIGEST_API_KEY")))
	if err != nil {
		log.Fatal("Failed to create client:", err)
	}
	defer client.Close()

	doc, err := dom.ParseString(page)
	if err != nil {
		log.Fatal("Failed to parse page:", err)
	}

	// Example 2: Open a session for the page and request a small digest
	fmt.Println("=== Small Digest ===")
	ctx := context.Background()
	session, err := client.Open(ctx, "science.example.com", doc)
	if err != nil {
		log.Fatal("Failed to open page:", err)
	}

	result, err := session.RequestDigest(ctx, digests.ModeSmall)
	if err != nil {
		fmt.Printf("Digest failed (%s): %s\n", digests.Kind(err), digests.Message(err))
	} else {
		fmt.Println(result.Text)
	}

	// Example 3: The same request again is answered from the cache
	fmt.Println("\n=== Cached Digest ===")
	if result, err := session.RequestDigest(ctx, digests.ModeSmall); err == nil {
		fmt.Printf("From cache: %v\n", result.FromCache)
	}

	// Example 4: Restore the original content
	fmt.Println("\n=== Restore ===")
	fmt.Printf("Restored: %v, status: %s\n", session.Restore(), session.Status().Label)

	// Example 5: Usage and cost
	fmt.Println("\n=== Usage ===")
	report := client.Usage()
	fmt.Printf("Calls: %d, tokens in/out: %d/%d, cost: $%.4f (%s)\n",
		report.Counters.Calls, report.Counters.Input, report.Counters.Output,
		report.Cost, report.Pricing.Model)

	// Example 6: Error handling for pages with nothing to digest
	fmt.Println("\n=== Error Handling ===")
	empty, _ := dom.ParseString(`<html><body><p>Too short.</p></body></html>`)
	if s, err := client.Open(ctx, "example.org", empty); err == nil {
		if _, err := s.RequestDigest(ctx, digests.ModeLarge); errors.Is(err, digests.ErrNothingToDigest) {
			fmt.Println("Nothing to digest:", digests.Message(err))
		}
	}

	fmt.Println("\nDone!")
}
