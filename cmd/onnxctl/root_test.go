package main

import "testing"

func TestBuildRootCmdHasSubcommands(t *testing.T) {
	root := buildRootCmd()
	want := map[string]bool{"models": false, "status": false, "infer": false, "completion": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestModelsRequiresSubcommand(t *testing.T) {
	cfg := &cliConfig{ServerAddr: "http://localhost:8080"}
	models := buildModelsCmd(cfg)
	if err := models.RunE(models, nil); err == nil {
		t.Fatal("expected error when models is run without a subcommand")
	}
}
