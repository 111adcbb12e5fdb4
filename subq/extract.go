package subq

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Some models never emit structured tool calls and instead print the
// request inline as pseudo-markup:
//
//	<function=get_ticket><parameter=id>123</parameter></function>
//
// extractTextToolCalls turns that markup into canonical calls so both
// encodings drive the loop identically.

const callMarker = "<function="

var (
	funcBlockRe = regexp.MustCompile(`(?is)<function=([^>\s]+)>(.*?)</function>`)
	paramRe     = regexp.MustCompile(`(?is)<parameter=([^>\s]+)>(.*?)</parameter>`)
)

// extractTextToolCalls scans content for call markup and returns one
// ToolCall per block in document order. Ids are unique within the batch.
// Content without an opening marker returns nil without a regex scan.
func extractTextToolCalls(content string) []ToolCall {
	if content == "" || markerIndex(content) < 0 {
		return nil
	}

	blocks := funcBlockRe.FindAllStringSubmatch(content, -1)
	calls := make([]ToolCall, 0, len(blocks))
	for i, block := range blocks {
		name, body := block[1], block[2]
		args := paramRe.FindAllStringSubmatch(body, -1)
		calls = append(calls, ToolCall{
			Index: i,
			ID:    fmt.Sprintf("call_text_%d", i),
			Type:  "function",
			Function: FunctionCall{
				Name:      strings.TrimSpace(name),
				Arguments: encodeParams(args),
			},
		})
	}
	return calls
}

// encodeParams re-encodes trimmed parameter pairs as a JSON object string,
// keeping document order.
func encodeParams(pairs [][]string) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte(',')
		}
		k, _ := json.Marshal(strings.TrimSpace(p[1]))
		v, _ := json.Marshal(strings.TrimSpace(p[2]))
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return b.String()
}

// markerIndex returns the byte offset of the first call marker, matched
// ASCII case-insensitively, or -1.
func markerIndex(content string) int {
	for i := 0; i+len(callMarker) <= len(content); i++ {
		if strings.EqualFold(content[i:i+len(callMarker)], callMarker) {
			return i
		}
	}
	return -1
}

// contentBeforeMarker cuts content at the first call marker and trims
// trailing whitespace, so call markup never leaks into the transcript.
func contentBeforeMarker(content string) string {
	if i := markerIndex(content); i >= 0 {
		content = content[:i]
	}
	return strings.TrimRight(content, " \t\r\n")
}
