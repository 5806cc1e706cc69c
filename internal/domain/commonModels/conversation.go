package commonModels

import (
	"path/filepath"
	"strings"
)

const (
	MsgEmptyConversation = "Conversation must contain at least one message."
	MsgLastNotUser       = "Last message should be from the user."
	MsgInvalidDocName    = "Invalid PDF name."
)

func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// ValidateConversation checks the roles and that the user spoke last.
func ValidateConversation(conversation []Message) error {
	if len(conversation) == 0 {
		return ValidationError(MsgEmptyConversation)
	}
	for _, m := range conversation {
		if !m.Role.Valid() {
			return ValidationError("Unknown message role: " + string(m.Role))
		}
	}
	if conversation[len(conversation)-1].Role != RoleUser {
		return ValidationError(MsgLastNotUser)
	}
	return nil
}

// ValidateDocName rejects names that would escape the index directory.
func ValidateDocName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return ValidationError(MsgInvalidDocName)
	}
	return nil
}
