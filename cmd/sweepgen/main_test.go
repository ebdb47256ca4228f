package main

import "testing"

func TestExpandCartesianProduct(t *testing.T) {
	axes := map[string][]string{
		"s": {"0.0", "0.1"},
		"r": {"0.3", "0.5", "0.7"},
	}

	combos := expand(axes)
	if len(combos) != 6 {
		t.Fatalf("got %d combinations, want 6", len(combos))
	}

	seen := map[string]bool{}
	for _, c := range combos {
		seen[c["s"]+"|"+c["r"]] = true
	}
	if len(seen) != 6 {
		t.Fatalf("combinations are not distinct: %v", seen)
	}
}

func TestExpandNoAxesYieldsOneEmptyCombination(t *testing.T) {
	combos := expand(nil)
	if len(combos) != 1 || len(combos[0]) != 0 {
		t.Fatalf("expected a single empty combination, got %v", combos)
	}
}

func TestBuildLineFailsOnMissingArgument(t *testing.T) {
	_, err := buildLine("reassort", map[string]string{"destination": "out"})
	if err == nil {
		t.Fatal("expected an error for a missing positional argument")
	}
}

func TestBuildLineOrdersArgumentsPositionally(t *testing.T) {
	args := map[string]string{}
	for _, name := range argOrder {
		args[name] = name
	}
	line, err := buildLine("reassort", args)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "reassort " + joinOrder()
	if line != want {
		t.Fatalf("line = %q, want %q", line, want)
	}
}

func joinOrder() string {
	out := ""
	for i, name := range argOrder {
		if i > 0 {
			out += " "
		}
		out += name
	}
	return out
}
