package state

// Action is an intent submitted to the Store. The set is closed: Exit,
// SendMessage, FocusConversation and InjectMessage.
type Action interface {
	action()
}

// Exit asks the Store to signal shutdown and stop.
type Exit struct{}

// SendMessage sends Content to the focused contact.
type SendMessage struct {
	Content string
}

// FocusConversation switches the active chat.
type FocusConversation struct {
	Contact Contact
}

// InjectMessage hands a fully formed message to the provider as is. The
// developer console uses it to simulate traffic in either direction.
type InjectMessage struct {
	Message Message
}

func (Exit) action()              {}
func (SendMessage) action()       {}
func (FocusConversation) action() {}
func (InjectMessage) action()     {}
