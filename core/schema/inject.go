package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Marshal serializes a graph compactly for embedding.
func Marshal(g Graph) ([]byte, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("marshaling schema graph: %w", err)
	}
	return data, nil
}

// Inject embeds the serialized graph as a JSON-LD script tag. When the
// document has a closing body tag the script goes immediately before it;
// otherwise it is appended.
func Inject(htmlIn string, graph []byte) string {
	tag := fmt.Sprintf("<script type=\"application/ld+json\">%s</script>", graph)
	if idx := strings.LastIndex(htmlIn, "</body>"); idx >= 0 {
		return htmlIn[:idx] + tag + "\n" + htmlIn[idx:]
	}
	return htmlIn + "\n" + tag
}
