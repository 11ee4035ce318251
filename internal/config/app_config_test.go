package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func writeConfiguration(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadFileConfigurationMergesSources(t *testing.T) {
	testCases := []struct {
		name          string
		globalContent string
		localContent  string
		explicitName  string
		explicitBody  string
		expectIgnore  []string
		expectMode    string
		expectDirs    *bool
		expectRoot    *bool
		expectGit     *bool
		expectJobs    int
	}{
		{
			name:          "local overrides global field by field",
			globalContent: "ignore: [dist]\ngitignore: stop\ndirs: true\ninclude:\n  git: true\njobs: 4\n",
			localContent:  "gitignore: dim\nroot: true\n",
			expectIgnore:  []string{"dist"},
			expectMode:    "dim",
			expectDirs:    boolPointer(true),
			expectRoot:    boolPointer(true),
			expectGit:     boolPointer(true),
			expectJobs:    4,
		},
		{
			name:          "local list replaces global list",
			globalContent: "ignore: [dist, build]\n",
			localContent:  "ignore: [coverage, coverage]\ndirs: false\n",
			expectIgnore:  []string{"coverage"},
			expectDirs:    boolPointer(false),
		},
		{
			name:          "explicit path replaces local file",
			globalContent: "gitignore: ignore\n",
			localContent:  "gitignore: dim\n",
			explicitName:  "custom.yaml",
			explicitBody:  "gitignore: off\n",
			expectMode:    "off",
		},
		{
			name:       "no files",
			expectMode: "",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDirectory := t.TempDir()
			workingDirectory := t.TempDir()
			if testCase.globalContent != "" {
				writeConfiguration(t, filepath.Join(homeDirectory, ".ptree", "config.yaml"), testCase.globalContent)
			}
			if testCase.localContent != "" {
				writeConfiguration(t, filepath.Join(workingDirectory, ".ptree.yaml"), testCase.localContent)
			}
			if testCase.explicitName != "" {
				writeConfiguration(t, filepath.Join(workingDirectory, testCase.explicitName), testCase.explicitBody)
			}
			loaded, err := LoadFileConfiguration(LoadOptions{
				WorkingDirectory: workingDirectory,
				ExplicitFilePath: testCase.explicitName,
				HomeDirectory:    homeDirectory,
			})
			if err != nil {
				t.Fatalf("LoadFileConfiguration error: %v", err)
			}
			if len(testCase.expectIgnore) > 0 && !reflect.DeepEqual(loaded.Ignore, testCase.expectIgnore) {
				t.Fatalf("expected ignore %v, got %v", testCase.expectIgnore, loaded.Ignore)
			}
			if loaded.Gitignore != testCase.expectMode {
				t.Fatalf("expected gitignore %q, got %q", testCase.expectMode, loaded.Gitignore)
			}
			if !reflect.DeepEqual(loaded.Dirs, testCase.expectDirs) {
				t.Fatalf("expected dirs %v, got %v", testCase.expectDirs, loaded.Dirs)
			}
			if !reflect.DeepEqual(loaded.Root, testCase.expectRoot) {
				t.Fatalf("expected root %v, got %v", testCase.expectRoot, loaded.Root)
			}
			if !reflect.DeepEqual(loaded.Include.Git, testCase.expectGit) {
				t.Fatalf("expected include.git %v, got %v", testCase.expectGit, loaded.Include.Git)
			}
			if IntValue(loaded.Jobs, 0) != testCase.expectJobs {
				t.Fatalf("expected jobs %d, got %d", testCase.expectJobs, IntValue(loaded.Jobs, 0))
			}
		})
	}
}

func TestLoadFileConfigurationErrors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		_, err := LoadFileConfiguration(LoadOptions{WorkingDirectory: t.TempDir(), ExplicitFilePath: "absent.yaml", HomeDirectory: t.TempDir()})
		if err == nil {
			t.Fatalf("expected an error for a missing explicit configuration")
		}
	})
	t.Run("directory in place of file", func(t *testing.T) {
		workingDirectory := t.TempDir()
		if err := os.Mkdir(filepath.Join(workingDirectory, ".ptree.yaml"), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if _, err := LoadFileConfiguration(LoadOptions{WorkingDirectory: workingDirectory, HomeDirectory: t.TempDir()}); err == nil {
			t.Fatalf("expected an error for a directory configuration path")
		}
	})
	t.Run("malformed yaml", func(t *testing.T) {
		workingDirectory := t.TempDir()
		writeConfiguration(t, filepath.Join(workingDirectory, ".ptree.yaml"), "ignore: [unterminated\n")
		if _, err := LoadFileConfiguration(LoadOptions{WorkingDirectory: workingDirectory, HomeDirectory: t.TempDir()}); err == nil {
			t.Fatalf("expected an error for malformed yaml")
		}
	})
}

func TestMergeKeepsUnsetFields(t *testing.T) {
	base := FileConfiguration{Clipboard: boolPointer(false), Model: "gpt-4o", Include: IncludeConfiguration{Target: boolPointer(true)}}
	merged := base.Merge(FileConfiguration{Color: "never"})
	if !reflect.DeepEqual(merged.Clipboard, boolPointer(false)) || merged.Model != "gpt-4o" || merged.Color != "never" {
		t.Fatalf("unexpected merge result: %+v", merged)
	}
	if !BoolValue(merged.Include.Target, false) {
		t.Fatalf("include.target must survive the merge")
	}
	if merged.Clipboard == base.Clipboard {
		t.Fatalf("merge must copy pointer values")
	}
}
