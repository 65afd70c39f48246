package domain

// Outcome is the settled result of an embed request: either an embed to
// place in the document, or the error that ended the request.
type Outcome struct {
	Embed Embed
	Err   error
}

// Success returns a successful outcome.
func Success(e Embed) Outcome {
	return Outcome{Embed: e}
}

// Failure returns a failed outcome.
func Failure(err error) Outcome {
	return Outcome{Err: err}
}

// IsError reports whether the outcome is a failure.
func (o Outcome) IsError() bool {
	return o.Err != nil
}

// Node returns the document node the outcome resolves into.
func (o Outcome) Node() Node {
	switch {
	case o.Err != nil:
		return EmbedNode(ErrorEmbed{Message: o.Err.Error()})
	case o.Embed == nil:
		return EmbedNode(ErrorEmbed{Message: "empty embed result"})
	default:
		return EmbedNode(o.Embed)
	}
}
