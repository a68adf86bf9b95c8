package main

import (
	"encoding/base64"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
)

// terminalNavigator turns view navigations into channel events the command waits on
type terminalNavigator struct {
	replaced    chan string
	returned    chan string
	openBrowser func(url string) error
}

func newTerminalNavigator() *terminalNavigator {
	return &terminalNavigator{
		replaced: make(chan string, 1),
		returned: make(chan string, 1),
	}
}

func (n *terminalNavigator) Replace(url string) {
	select {
	case n.replaced <- url:
	default:
	}
}

func (n *terminalNavigator) Navigate(path string) {
	select {
	case n.returned <- path:
	default:
	}
}

// clipboardWriteAll is a package-level variable to allow stubbing in tests.
var clipboardWriteAll = clipboard.WriteAll

// clipboardUnsupported reports whether no system clipboard utility was found
var clipboardUnsupported = func() bool { return clipboard.Unsupported }

// systemClipboard copies through the platform clipboard. Without one (a bare
// SSH session, say) it falls back to the OSC 52 terminal sequence on w.
type systemClipboard struct {
	w io.Writer
}

func (c *systemClipboard) WriteText(text string) error {
	if clipboardUnsupported() {
		return writeOSC52(c.w, text)
	}
	if err := clipboardWriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

func writeOSC52(w io.Writer, text string) error {
	seq := "\x1b]52;c;" + base64.StdEncoding.EncodeToString([]byte(text)) + "\a"
	if _, err := io.WriteString(w, seq); err != nil {
		return fmt.Errorf("write clipboard sequence: %w", err)
	}
	return nil
}
