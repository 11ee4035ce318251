package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitializeConfigurationCreatesLocalFile(t *testing.T) {
	workingDirectory := t.TempDir()
	path, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal})
	if err != nil {
		t.Fatalf("InitializeConfiguration error: %v", err)
	}
	expectedPath := filepath.Join(workingDirectory, ".ptree.yaml")
	if path != expectedPath {
		t.Fatalf("expected path %s, got %s", expectedPath, path)
	}
	loaded, loadErr := LoadFileConfiguration(LoadOptions{WorkingDirectory: workingDirectory, HomeDirectory: t.TempDir()})
	if loadErr != nil {
		t.Fatalf("template must load: %v", loadErr)
	}
	if loaded.Gitignore != "auto" || loaded.Model != "gpt-4o" || IntValue(loaded.Jobs, 0) != 1 {
		t.Fatalf("unexpected template values: %+v", loaded)
	}
	if !BoolValue(loaded.Clipboard, false) {
		t.Fatalf("template must enable the clipboard")
	}
}

func TestInitializeConfigurationHonorsGlobalTarget(t *testing.T) {
	homeDirectory := t.TempDir()
	path, err := InitializeConfiguration(InitOptions{Target: InitTargetGlobal, HomeDirectory: homeDirectory})
	if err != nil {
		t.Fatalf("InitializeConfiguration error: %v", err)
	}
	expectedPath := filepath.Join(homeDirectory, ".ptree", "config.yaml")
	if path != expectedPath {
		t.Fatalf("expected path %s, got %s", expectedPath, path)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Fatalf("expected file to exist at %s: %v", path, statErr)
	}
}

func TestInitializeConfigurationPreventsOverwriteWithoutForce(t *testing.T) {
	workingDirectory := t.TempDir()
	path := filepath.Join(workingDirectory, ".ptree.yaml")
	if err := os.WriteFile(path, []byte("existing"), 0o600); err != nil {
		t.Fatalf("write seed config: %v", err)
	}
	if _, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal}); err == nil {
		t.Fatalf("expected error when configuration already exists")
	}
	if _, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal, Force: true}); err != nil {
		t.Fatalf("forced initialization failed: %v", err)
	}
}

func TestInitializeConfigurationRejectsUnknownTarget(t *testing.T) {
	if _, err := InitializeConfiguration(InitOptions{Target: "remote", WorkingDirectory: t.TempDir()}); err == nil {
		t.Fatalf("expected error for an unknown target")
	}
}
