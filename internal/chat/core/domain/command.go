package domain

import "strings"

const DefaultCommandPrefix = "."

type Command struct {
	Name string
	Args []string
}

// ParseCommand splits text that starts with prefix into a lower-cased
// command name and its arguments. ok is false for ordinary chatter.
func ParseCommand(text, prefix string) (cmd Command, ok bool) {
	if prefix == "" {
		prefix = DefaultCommandPrefix
	}
	if !strings.HasPrefix(text, prefix) {
		return Command{}, false
	}
	fields := strings.Fields(strings.TrimPrefix(text, prefix))
	if len(fields) == 0 {
		return Command{}, false
	}
	return Command{
		Name: strings.ToLower(fields[0]),
		Args: fields[1:],
	}, true
}
