package generator

import (
	"regexp"
	"strings"
)

// Quoted-revision requests embed the span to revise and the instruction:
//
//	Regarding this part: "<quoted>"
//
//	<instruction>
var (
	quotedPattern      = regexp.MustCompile(`Regarding this part: "([^"]+)"`)
	instructionPattern = regexp.MustCompile(`(?s)Regarding this part: "[^"]+"\s*\n\n(.*)`)
	revisedPrefix      = regexp.MustCompile(`(?i)^Revised text:\s*`)
)

// quotedRequest is a parsed quoted-revision request
type quotedRequest struct {
	Quoted      string
	Instruction string
}

// isQuotedRequest reports whether the input is a quoted-revision request
func isQuotedRequest(input string) bool {
	return strings.Contains(input, "Regarding this part:")
}

// parseQuotedRequest extracts the quoted span and instruction. Returns false
// when the quote marker is present but malformed.
func parseQuotedRequest(input string) (*quotedRequest, bool) {
	quoteMatch := quotedPattern.FindStringSubmatch(input)
	if quoteMatch == nil {
		return nil, false
	}

	req := &quotedRequest{Quoted: quoteMatch[1]}
	if instructionMatch := instructionPattern.FindStringSubmatch(input); instructionMatch != nil {
		req.Instruction = instructionMatch[1]
	}
	return req, true
}

// stripRevisedPrefix removes a leading "Revised text:" label the model
// sometimes adds
func stripRevisedPrefix(text string) string {
	return revisedPrefix.ReplaceAllString(text, "")
}

// spliceRevision replaces the first occurrence of quoted inside content with
// revised. Returns false when the quoted span is not present.
func spliceRevision(content, quoted, revised string) (string, bool) {
	idx := strings.Index(content, quoted)
	if idx == -1 {
		return "", false
	}
	return content[:idx] + revised + content[idx+len(quoted):], true
}
