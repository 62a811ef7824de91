package browser

// PromptKind identifies the modal dialog that is open.
type PromptKind int

const (
	PromptNone PromptKind = iota
	// PromptClientFolder asks for the client name after a range is finalized.
	PromptClientFolder
	// PromptConfirmCart asks for the recipient email of the cart.
	PromptConfirmCart
)

func (k PromptKind) String() string {
	switch k {
	case PromptClientFolder:
		return "client-folder"
	case PromptConfirmCart:
		return "confirm-cart"
	default:
		return "none"
	}
}

// Prompt is the open dialog and its inline notice, if any.
type Prompt struct {
	Kind   PromptKind
	Notice string
}

func (p Prompt) Open() bool { return p.Kind != PromptNone }
