package argspec

import "testing"

func TestBuilderShape(t *testing.T) {
	c := New("deploy")
	c.Flag("--mode", "-m").WithChoices("a", "b", "c").WithHelp("deployment mode")
	c.Flag("--force").WithGroup("confirm")
	c.Flag("--dry-run").WithGroup("confirm")
	c.Positional("target", ExactlyOne())
	c.Positional("extras", Remainder())
	sub := c.Subcommand("status")
	sub.Positional("service", Optional())

	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if got := len(c.Flags()); got != 3 {
		t.Errorf("flags = %d, want 3", got)
	}
	if c.Flags()[0].Arity() != 1 {
		t.Errorf("WithChoices should imply arity 1, got %d", c.Flags()[0].Arity())
	}
	if got := len(c.Positionals()); got != 2 {
		t.Errorf("positionals = %d, want 2", got)
	}
	if _, ok := c.FindSubcommand("status"); !ok {
		t.Errorf("FindSubcommand(status) not found")
	}
	if _, ok := c.FindSubcommand("nope"); ok {
		t.Errorf("FindSubcommand(nope) should not match")
	}
}

func TestValidateRejectsDuplicateTriggers(t *testing.T) {
	c := New("x")
	c.Flag("--mode")
	c.Flag("--mode")
	if err := c.Validate(); err == nil {
		t.Errorf("Validate() should reject duplicate triggers")
	}

	// Duplicates across short/long pairs count too.
	c2 := New("x")
	c2.Flag("--mode", "-m")
	c2.Flag("-m")
	if err := c2.Validate(); err == nil {
		t.Errorf("Validate() should reject duplicate short trigger")
	}
}

func TestValidateRejectsNonTrailingUnbounded(t *testing.T) {
	c := New("x")
	c.Positional("files", AtLeastOne())
	c.Positional("dest", ExactlyOne())
	if err := c.Validate(); err == nil {
		t.Errorf("Validate() should reject unbounded positional before the end")
	}
}

func TestValidateRecursesIntoSubcommands(t *testing.T) {
	c := New("x")
	sub := c.Subcommand("inner")
	sub.Flag("--a")
	sub.Flag("--a")
	if err := c.Validate(); err == nil {
		t.Errorf("Validate() should surface subcommand errors")
	}
}
