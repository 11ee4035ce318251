package output_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/muesli/termenv"

	"github.com/temirov/ptree/internal/output"
)

const (
	coloredTree = "project\n└── \x1b[2mcache\x1b[0m/"
	plainTree   = "project\n└── cache/"
)

type recordingCopier struct {
	copied    []string
	copyError error
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return copier.copyError
}

func TestDispatcherEmit(t *testing.T) {
	var stdout bytes.Buffer
	copier := &recordingCopier{}
	outputPath := filepath.Join(t.TempDir(), "tree.txt")
	dispatcher := output.Dispatcher{
		Stdout:          &stdout,
		Copier:          copier,
		OutputPath:      outputPath,
		CopyToClipboard: true,
	}
	if emitError := dispatcher.Emit(coloredTree, plainTree); emitError != nil {
		t.Fatalf("Emit error: %v", emitError)
	}
	if stdout.String() != coloredTree+"\n" {
		t.Fatalf("unexpected stdout %q", stdout.String())
	}
	fileContent, readError := os.ReadFile(outputPath)
	if readError != nil {
		t.Fatalf("read output file: %v", readError)
	}
	if string(fileContent) != plainTree {
		t.Fatalf("unexpected file content %q", fileContent)
	}
	if len(copier.copied) != 1 || copier.copied[0] != plainTree {
		t.Fatalf("unexpected clipboard content %q", copier.copied)
	}
}

func TestDispatcherSkipsClipboardWhenDisabled(t *testing.T) {
	var stdout bytes.Buffer
	copier := &recordingCopier{}
	dispatcher := output.Dispatcher{Stdout: &stdout, Copier: copier}
	if emitError := dispatcher.Emit(plainTree, plainTree); emitError != nil {
		t.Fatalf("Emit error: %v", emitError)
	}
	if len(copier.copied) != 0 {
		t.Fatalf("clipboard must not be used, got %q", copier.copied)
	}
}

func TestDispatcherReportsClipboardFailureAfterOutput(t *testing.T) {
	var stdout bytes.Buffer
	clipboardFailure := errors.New("no clipboard")
	outputPath := filepath.Join(t.TempDir(), "tree.txt")
	dispatcher := output.Dispatcher{
		Stdout:          &stdout,
		Copier:          &recordingCopier{copyError: clipboardFailure},
		OutputPath:      outputPath,
		CopyToClipboard: true,
	}
	emitError := dispatcher.Emit(plainTree, plainTree)
	if !errors.Is(emitError, clipboardFailure) || !errors.Is(emitError, output.ErrClipboardCopy) {
		t.Fatalf("expected clipboard failure, got %v", emitError)
	}
	if stdout.String() != plainTree+"\n" {
		t.Fatalf("stdout must be written before the clipboard, got %q", stdout.String())
	}
	if _, statError := os.Stat(outputPath); statError != nil {
		t.Fatalf("output file must be written before the clipboard: %v", statError)
	}
}

func TestDispatcherWithoutCopier(t *testing.T) {
	dispatcher := output.Dispatcher{Stdout: &bytes.Buffer{}, CopyToClipboard: true}
	if emitError := dispatcher.Emit(plainTree, plainTree); !errors.Is(emitError, output.ErrClipboardUnavailable) {
		t.Fatalf("expected ErrClipboardUnavailable, got %v", emitError)
	}
}

func TestDispatcherFileError(t *testing.T) {
	missingDirectory := filepath.Join(t.TempDir(), "missing", "tree.txt")
	dispatcher := output.Dispatcher{Stdout: &bytes.Buffer{}, OutputPath: missingDirectory}
	emitError := dispatcher.Emit(plainTree, plainTree)
	if emitError == nil || errors.Is(emitError, output.ErrClipboardCopy) {
		t.Fatalf("expected a file error, got %v", emitError)
	}
}

func TestNewPainter(t *testing.T) {
	testCases := []struct {
		name     string
		profile  termenv.Profile
		expected string
	}{
		{name: "ansi", profile: termenv.ANSI, expected: "\x1b[2mcache\x1b[0m"},
		{name: "ascii", profile: termenv.Ascii, expected: "cache"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if dimmed := output.NewPainter(testCase.profile).Dim("cache"); dimmed != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, dimmed)
			}
		})
	}
}

func TestColorMode(t *testing.T) {
	testCases := []struct {
		input           string
		expectedMode    output.ColorMode
		expectedProfile termenv.Profile
		expectError     bool
	}{
		{input: "", expectedMode: output.ColorAuto, expectedProfile: termenv.Ascii},
		{input: "auto", expectedMode: output.ColorAuto, expectedProfile: termenv.Ascii},
		{input: "ALWAYS", expectedMode: output.ColorAlways, expectedProfile: termenv.ANSI},
		{input: "never", expectedMode: output.ColorNever, expectedProfile: termenv.Ascii},
		{input: "sometimes", expectError: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.input, func(t *testing.T) {
			mode, parseError := output.ParseColorMode(testCase.input)
			if testCase.expectError {
				if parseError == nil {
					t.Fatalf("expected an error for %q", testCase.input)
				}
				return
			}
			if parseError != nil {
				t.Fatalf("ParseColorMode error: %v", parseError)
			}
			if mode != testCase.expectedMode {
				t.Fatalf("expected %s, got %s", testCase.expectedMode, mode)
			}
			if profile := mode.Profile(&bytes.Buffer{}); profile != testCase.expectedProfile {
				t.Fatalf("expected profile %v, got %v", testCase.expectedProfile, profile)
			}
		})
	}
}
