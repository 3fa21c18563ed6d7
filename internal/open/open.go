package open

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Zuo-Peng/chatlens/internal/index"
)

// OpenRecord opens the imported export in $EDITOR at the header line of
// the message with the given seq.
func OpenRecord(db *index.DB, seq int) error {
	chat, err := db.GetChat()
	if err != nil {
		return fmt.Errorf("get chat: %w", err)
	}
	if chat == nil {
		return fmt.Errorf("no chat imported; run chatlens import first")
	}
	if chat.Entry != "" {
		return fmt.Errorf("%s is inside %s; extract it to open it in an editor", chat.Entry, chat.FilePath)
	}

	filePath := chat.FilePath
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file not found: %s", filePath)
	}

	rec, err := db.GetRecord(seq)
	if err != nil {
		return fmt.Errorf("get message: %w", err)
	}
	if rec == nil {
		return fmt.Errorf("no message #%d", seq)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "less"
	}

	cmd := editorCommand(editor, filePath, rec.Line)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// editorCommand builds the invocation that puts the cursor on lineNum.
// editor may carry its own arguments, e.g. "code -w".
func editorCommand(editor, filePath string, lineNum int) *exec.Cmd {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		fields = []string{"less"}
	}
	name, extra := fields[0], fields[1:]

	var args []string
	switch {
	case strings.Contains(name, "vim") || strings.Contains(name, "nvim") ||
		strings.Contains(name, "nano") || strings.Contains(name, "emacs"):
		args = []string{fmt.Sprintf("+%d", lineNum), filePath}
	case strings.Contains(name, "code"):
		args = []string{"--goto", filePath + ":" + strconv.Itoa(lineNum)}
	case strings.Contains(name, "less"):
		args = []string{"+" + strconv.Itoa(lineNum), filePath}
	default:
		args = []string{filePath}
	}
	return exec.Command(name, append(extra, args...)...)
}
