package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/mattn/go-isatty"
	"github.com/spddl/spddl/internal/download"
	"github.com/spddl/spddl/internal/lookup"
	"github.com/spddl/spddl/internal/selection"
)

var stdin = bufio.NewReader(os.Stdin)

func interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// askURL asks for the link to download.
func askURL() (string, error) {
	var answer string
	if !interactive() {
		colorPrompt.Print("Enter a track, album or playlist URL: ")
		return readLine()
	}

	err := survey.AskOne(&survey.Input{
		Message: "Enter a track, album or playlist URL:",
	}, &answer, survey.WithValidator(survey.Required))
	return strings.TrimSpace(answer), err
}

// askSelection asks which of n tracks to download.
func askSelection(n int) (string, error) {
	msg := fmt.Sprintf("Tracks to download (1-%d, space separated, blank for all):", n)
	if !interactive() {
		colorPrompt.Print(msg + " ")
		return readLine()
	}

	var answer string
	err := survey.AskOne(&survey.Input{Message: msg}, &answer)
	return answer, err
}

// readLine reads one line from stdin. EOF after a partial line is not an error.
func readLine() (string, error) {
	line, err := stdin.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptExit maps a prompt or selection error to an exit code.
func promptExit(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return &exitError{code: download.ExitInterrupted, err: errors.New("interrupted")}
	}

	var tokenErr *selection.InvalidTokenError
	if errors.As(err, &tokenErr) {
		return &exitError{code: download.ExitFatal, err: fmt.Errorf("%v: enter track numbers separated by spaces", tokenErr)}
	}
	return &exitError{code: download.ExitFatal, err: err}
}

// userMessage turns an error into a message fit for the terminal.
func userMessage(err error) string {
	var apiErr *lookup.APIError
	switch {
	case errors.Is(err, lookup.ErrUnsupportedURL):
		return err.Error()
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, lookup.ErrUnreachable):
		return "could not reach server, try again later"
	case errors.Is(err, lookup.ErrMalformed):
		return "unexpected response from server"
	default:
		return err.Error()
	}
}
