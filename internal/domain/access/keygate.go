package access

// GateState is the authorization state of a shared-secret gate.
type GateState string

const (
	GateUnchecked  GateState = "unchecked"
	GateAuthorized GateState = "authorized"
	GateDenied     GateState = "denied"
)

// ErrMsgWrongKey is shown under the prompt after a mismatched submission.
const ErrMsgWrongKey = "Clé incorrecte"

// KeyGate is the state machine behind a page gated by a static shared secret.
// The comparison is a plaintext string match: it keeps casual visitors out and
// is not a security boundary.
type KeyGate struct {
	secret       string
	fallback     string
	state        GateState
	modalVisible bool
	errMsg       string
}

// NewKeyGate returns a gate in the unchecked state.
func NewKeyGate(secret, fallbackPath string) *KeyGate {
	if fallbackPath == "" {
		fallbackPath = DefaultGateFallback
	}
	return &KeyGate{secret: secret, fallback: fallbackPath, state: GateUnchecked}
}

// State returns the current gate state.
func (g *KeyGate) State() GateState { return g.state }

// ModalVisible reports whether the key prompt is showing.
func (g *KeyGate) ModalVisible() bool { return g.modalVisible }

// Error returns the inline prompt error, if any.
func (g *KeyGate) Error() string { return g.errMsg }

// Mount runs the on-load check. queryKey comes from ?key=, stored is the
// previously validated secret (empty when absent). It reports whether the
// secret should be persisted.
func (g *KeyGate) Mount(queryKey, stored string) bool {
	if g.matches(queryKey) {
		g.authorize()
		return true
	}
	if g.matches(stored) {
		g.authorize()
		return false
	}
	g.modalVisible = true
	return false
}

// Submit handles a prompt submission. A match authorizes and closes the prompt;
// a mismatch keeps the prompt open with an error. It reports whether the
// secret should be persisted, which happens at most once per gate.
func (g *KeyGate) Submit(input string) bool {
	if !g.modalVisible {
		return false
	}
	if g.matches(input) {
		g.authorize()
		return true
	}
	g.errMsg = ErrMsgWrongKey
	return false
}

// Deny rejects the visitor; the gate then redirects to its fallback.
func (g *KeyGate) Deny() {
	g.state = GateDenied
	g.modalVisible = false
}

// View resolves the rendering precedence: denial redirects, the prompt wins
// over the page once shown, authorization renders the page, anything else is
// still loading.
func (g *KeyGate) View() Result {
	switch {
	case g.state == GateDenied:
		return Result{Outcome: Redirect, Location: g.fallback}
	case g.modalVisible:
		return Result{Outcome: ShowPrompt}
	case g.state == GateAuthorized:
		return Result{Outcome: RenderChildren, Decision: Allow()}
	default:
		return Result{Outcome: ShowLoading}
	}
}

func (g *KeyGate) authorize() {
	g.state = GateAuthorized
	g.modalVisible = false
	g.errMsg = ""
}

func (g *KeyGate) matches(candidate string) bool {
	return g.secret != "" && candidate == g.secret
}
