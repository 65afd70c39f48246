package domain

import "fmt"

// NodeID is a stable handle for a node in a document engine.
// It survives edits that shift positions around the node.
type NodeID string

// NodeKind identifies the variant of a document node.
type NodeKind int

// Node kinds.
const (
	// NodeText is a line of plain text.
	NodeText NodeKind = iota
	// NodePlaceholder is a loading node for a pending embed.
	NodePlaceholder
	// NodeSite is a link preview embed.
	NodeSite
	// NodeImage is an image embed.
	NodeImage
	// NodeVideo is a video embed.
	NodeVideo
	// NodeError is an inline embed error.
	NodeError
)

// String returns the string representation of the node kind.
func (k NodeKind) String() string {
	switch k {
	case NodeText:
		return "text"
	case NodePlaceholder:
		return "loading"
	case NodeSite:
		return "site"
	case NodeImage:
		return "image"
	case NodeVideo:
		return "video"
	case NodeError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseNodeKind is the inverse of NodeKind.String.
func ParseNodeKind(s string) (NodeKind, error) {
	for k := NodeText; k <= NodeError; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: node kind %q", ErrUnsupportedType, s)
}

// IsEmbed reports whether nodes of this kind carry an Embed.
func (k NodeKind) IsEmbed() bool {
	return k >= NodeSite && k <= NodeError
}

// Node is one element of a document.
type Node struct {
	// ID is assigned by the document engine on insertion.
	ID NodeID

	// Kind selects which of the fields below are meaningful.
	Kind NodeKind

	// Text is the content of a text node.
	Text string

	// Embed is the result carried by site, image, video and error nodes.
	Embed Embed

	// Placeholder is set on loading nodes.
	Placeholder *Placeholder
}

// TextNode returns a text node.
func TextNode(text string) Node {
	return Node{Kind: NodeText, Text: text}
}

// EmbedNode returns the result node for an embed.
func EmbedNode(e Embed) Node {
	return Node{Kind: e.Kind(), Embed: e}
}

// PlaceholderNode returns a loading node for key with the given destroy hook.
func PlaceholderNode(key LookupKey, hook DestroyHook) Node {
	return Node{Kind: NodePlaceholder, Placeholder: &Placeholder{Key: key, OnDestroy: hook}}
}

// String renders the node as a single line.
func (n Node) String() string {
	switch n.Kind {
	case NodeText:
		return n.Text
	case NodePlaceholder:
		if n.Placeholder != nil {
			return fmt.Sprintf("[loading] %s", n.Placeholder.Key)
		}
		return "[loading]"
	default:
		if n.Embed == nil {
			return fmt.Sprintf("[%s]", n.Kind)
		}
		return n.Embed.Summary()
	}
}

// DestroyHook is notified when a placeholder leaves the document through
// anything other than resolution, e.g. a user deletion or an undo.
type DestroyHook interface {
	PlaceholderDestroyed(p *Placeholder)
}

// Placeholder is the loading state of one pending embed.
//
// A placeholder ends in exactly one of two ways: it is replaced by a result
// node, or it is removed from the document and OnDestroy fires.
type Placeholder struct {
	// ID is the node handle, set by the document engine on insertion.
	ID NodeID

	// Key correlates the placeholder with its in-flight request.
	Key LookupKey

	// OnDestroy is invoked by the document engine on external removal.
	OnDestroy DestroyHook
}
