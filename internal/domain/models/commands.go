package models

import "strings"

// CommandType enumerates supported chat command categories.
type CommandType string

const (
	CommandSale     CommandType = "sale"
	CommandPurchase CommandType = "purchase"
	CommandToday    CommandType = "today"
	CommandSummary  CommandType = "summary"
	CommandHelp     CommandType = "help"
	CommandUnknown  CommandType = "unknown"
)

// Command represents a parsed instruction extracted from a chat message.
// Arguments are separated by "|" so that names may contain spaces.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command from free-form text such as
// "/sale Somchai | Pork belly | 2.5 | 300 | 360".
func ParseCommand(message string) Command {
	trimmed := strings.TrimSpace(message)
	cmd := Command{Type: CommandUnknown, Raw: message}
	if trimmed == "" {
		return cmd
	}

	head, rest, _ := strings.Cut(trimmed, " ")
	head = strings.TrimPrefix(strings.ToLower(head), "/")

	switch CommandType(head) {
	case CommandSale, CommandPurchase, CommandToday, CommandSummary, CommandHelp:
		cmd.Type = CommandType(head)
	}

	rest = strings.TrimSpace(rest)
	if rest == "" {
		return cmd
	}

	for _, part := range strings.Split(rest, "|") {
		cmd.Args = append(cmd.Args, strings.TrimSpace(part))
	}
	return cmd
}
