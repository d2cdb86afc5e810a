package session

// Decision is what a protected view does for a given session status.
type Decision int

const (
	DecisionLoading Decision = iota
	DecisionRedirect
	DecisionRender
)

func (d Decision) String() string {
	switch d {
	case DecisionLoading:
		return "loading"
	case DecisionRedirect:
		return "redirect"
	case DecisionRender:
		return "render"
	}
	return "unknown"
}

// Decide never redirects while the session is still being restored; only a
// known-absent session is sent to the login view.
func Decide(s Status) Decision {
	switch s {
	case StatusAuthenticated:
		return DecisionRender
	case StatusAnonymous:
		return DecisionRedirect
	}
	return DecisionLoading
}
