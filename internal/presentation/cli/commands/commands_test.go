package commands

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
)

// executeCommand executes a cobra command with the given args.
func executeCommand(root *cobra.Command, args ...string) error {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	return root.Execute()
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	if cmd == nil {
		t.Fatal("NewRootCmd returned nil")
	}

	if cmd.Use != "ventasync" {
		t.Errorf("expected Use='ventasync', got %q", cmd.Use)
	}

	// Check key subcommands exist
	wantSubcmds := []string{"version", "init", "status", "product", "sale", "sync"}
	subcmds := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcmds[sub.Name()] = true
	}

	for _, want := range wantSubcmds {
		if !subcmds[want] {
			t.Errorf("missing subcommand: %s", want)
		}
	}

	// Check persistent flags
	wantFlags := []string{"config", "db", "output", "verbose"}
	for _, flag := range wantFlags {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag: %s", flag)
		}
	}
}

func TestVersionCmd_NoError(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"basic", []string{"version"}},
		{"short", []string{"version", "--short"}},
		{"json", []string{"version", "-o", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewRootCmd()
			if err := executeCommand(cmd, tt.args...); err != nil {
				t.Errorf("error = %v", err)
			}
		})
	}
}

func TestProductCmd_Structure(t *testing.T) {
	cmd := NewProductCmd()

	wantSubcmds := []string{"add", "list", "update", "rm"}
	subcmds := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcmds[sub.Name()] = true
	}
	for _, want := range wantSubcmds {
		if !subcmds[want] {
			t.Errorf("missing subcommand: product %s", want)
		}
	}
}

func TestSaleCmd_Structure(t *testing.T) {
	cmd := NewSaleCmd()

	wantSubcmds := []string{"add", "list", "update", "rm"}
	subcmds := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcmds[sub.Name()] = true
	}
	for _, want := range wantSubcmds {
		if !subcmds[want] {
			t.Errorf("missing subcommand: sale %s", want)
		}
	}
}

func TestProductAddCmd_RejectsBadPrice(t *testing.T) {
	cmd := newProductAddCmd()
	if err := executeCommand(cmd, "Widget", "not-a-price"); err == nil {
		t.Error("expected error for non-numeric price")
	}
}

func TestSaleAddCmd_RejectsBadQuantity(t *testing.T) {
	cmd := newSaleAddCmd()
	if err := executeCommand(cmd, "some-id", "three"); err == nil {
		t.Error("expected error for non-numeric quantity")
	}
}

func TestProductUpdateCmd_RequiresAField(t *testing.T) {
	// No container needed: the flag check runs before storage access.
	cmd := newProductUpdateCmd()
	if err := executeCommand(cmd, "some-id"); err == nil {
		t.Error("expected error when neither --name nor --price is set")
	}
}

func TestSyncCmd_Flags(t *testing.T) {
	cmd := NewSyncCmd()
	if cmd.Flags().Lookup("entity") == nil {
		t.Error("missing flag: entity")
	}
	if cmd.Flags().Lookup("daemon") == nil {
		t.Error("missing flag: daemon")
	}
}
