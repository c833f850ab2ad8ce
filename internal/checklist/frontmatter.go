package checklist

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/relcheck/internal/model"
)

// ErrMalformedFrontMatter indicates the YAML block is unterminated or could not be parsed.
var ErrMalformedFrontMatter = errors.New("checklist: malformed frontmatter")

const fence = "---\n"

// splitFrontMatter separates an optional leading YAML block from the document body and
// reports how many lines the block took. Content must already use \n line endings.
func splitFrontMatter(content []byte) (model.Meta, []byte, int, error) {
	if !bytes.HasPrefix(content, []byte(fence)) {
		return model.Meta{}, content, 0, nil
	}
	rest := content[len(fence):]

	var metaBytes, body []byte
	switch {
	case bytes.HasPrefix(rest, []byte(fence)):
		body = rest[len(fence):]
	case bytes.HasSuffix(rest, []byte("\n---")):
		metaBytes = rest[:len(rest)-len("\n---")]
	default:
		parts := bytes.SplitN(rest, []byte("\n"+fence), 2)
		if len(parts) < 2 {
			return model.Meta{}, nil, 0, ErrMalformedFrontMatter
		}
		metaBytes, body = parts[0], parts[1]
	}

	var meta model.Meta
	if err := yaml.Unmarshal(metaBytes, &meta); err != nil {
		return model.Meta{}, nil, 0, fmt.Errorf("%w: %v", ErrMalformedFrontMatter, err)
	}
	lines := bytes.Count(content[:len(content)-len(body)], []byte("\n"))
	return meta, body, lines, nil
}

func writeFrontMatter(buf *bytes.Buffer, meta model.Meta) error {
	if meta.IsZero() {
		return nil
	}
	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("checklist: encode frontmatter: %w", err)
	}
	buf.WriteString(fence)
	buf.Write(data)
	buf.WriteString(fence)
	return nil
}
