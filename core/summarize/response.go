// ABOUTME: Backend response decoding and output post-processing
// ABOUTME: Accepts responses-style and chat-style payloads and normalizes the generated text

package summarize

import (
	"encoding/json"
	"regexp"
	"strings"
)

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type usagePayload struct {
	InputTokens      int64 `json:"input_tokens"`
	OutputTokens     int64 `json:"output_tokens"`
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
}

func (u usagePayload) input() int64 {
	if u.InputTokens != 0 {
		return u.InputTokens
	}
	return u.PromptTokens
}

func (u usagePayload) output() int64 {
	if u.OutputTokens != 0 {
		return u.OutputTokens
	}
	return u.CompletionTokens
}

type response struct {
	OutputText json.RawMessage `json:"output_text"`
	Output     []struct {
		Content []contentPart `json:"content"`
	} `json:"output"`
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *usagePayload `json:"usage"`
}

// text returns the generated text in priority order:
// output_text, then output[].content[].text, then choices[0].message.content
func (r response) text() string {
	if s := rawText(r.OutputText); strings.TrimSpace(s) != "" {
		return s
	}

	var parts []string
	for _, item := range r.Output {
		for _, c := range item.Content {
			if strings.TrimSpace(c.Text) != "" {
				parts = append(parts, c.Text)
			}
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, "\n\n")
	}

	if len(r.Choices) > 0 {
		return rawText(r.Choices[0].Message.Content)
	}
	return ""
}

// rawText decodes a field that is either a string or a list of text parts
func rawText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return ""
	}
	var parts []string
	for _, item := range list {
		var str string
		if err := json.Unmarshal(item, &str); err == nil {
			parts = append(parts, str)
			continue
		}
		var part contentPart
		if err := json.Unmarshal(item, &part); err == nil && part.Text != "" {
			parts = append(parts, part.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}

var (
	fenceOpen   = regexp.MustCompile("^```[a-zA-Z0-9_-]*[ \t]*\r?\n")
	fenceClose  = regexp.MustCompile("\r?\n?```\\s*$")
	extraBreaks = regexp.MustCompile(`\n{3,}`)
)

// postProcess strips a fenced-code wrapper and unwraps JSON lists and strings
func postProcess(out string) string {
	out = strings.TrimSpace(out)
	if strings.HasPrefix(out, "```") {
		out = fenceOpen.ReplaceAllString(out, "")
		out = fenceClose.ReplaceAllString(out, "")
		out = strings.TrimSpace(out)
	}

	switch {
	case strings.HasPrefix(out, "["):
		var items []json.RawMessage
		if err := json.Unmarshal([]byte(out), &items); err == nil {
			var paragraphs []string
			for _, item := range items {
				var s string
				if err := json.Unmarshal(item, &s); err == nil {
					if s = strings.TrimSpace(s); s != "" {
						paragraphs = append(paragraphs, s)
					}
					continue
				}
				if p := strings.TrimSpace(string(item)); p != "" && p != "null" {
					paragraphs = append(paragraphs, p)
				}
			}
			return strings.Join(paragraphs, "\n\n")
		}
	case strings.HasPrefix(out, `"`):
		var s string
		if err := json.Unmarshal([]byte(out), &s); err == nil {
			return strings.TrimSpace(s)
		}
	}

	out = strings.ReplaceAll(out, "\r\n", "\n")
	return extraBreaks.ReplaceAllString(out, "\n\n")
}
