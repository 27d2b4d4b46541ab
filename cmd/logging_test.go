package cmd

import (
	"flag"
	"testing"

	"github.com/sosoyan/aton/log"
	"github.com/urfave/cli"
)

func commandContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()

	set := flag.NewFlagSet("aton", flag.ContinueOnError)
	set.Bool("v", false, "")
	set.Bool("vv", false, "")
	set.String("log-level", "", "")
	if err := set.Parse(args); err != nil {
		t.Fatal(err)
	}

	app := cli.NewApp()
	global := cli.NewContext(app, set, nil)
	return cli.NewContext(app, flag.NewFlagSet("scene", flag.ContinueOnError), global)
}

func TestSetupLogging(t *testing.T) {
	defer log.SetLevel(log.GetLevel())

	specs := []struct {
		args     []string
		expLevel log.Level
		expErr   bool
	}{
		{nil, log.Notice, false},
		{[]string{"-v"}, log.Info, false},
		{[]string{"-vv"}, log.Debug, false},
		{[]string{"-v", "-vv"}, log.Debug, false},
		{[]string{"-log-level", "warning"}, log.Warning, false},
		{[]string{"-vv", "-log-level", "Error"}, log.Error, false},
		{[]string{"-log-level", "loud"}, log.Notice, true},
	}

	for index, spec := range specs {
		log.SetLevel(log.Notice)
		err := setupLogging(commandContext(t, spec.args...))
		if spec.expErr != (err != nil) {
			t.Fatalf("[spec %d] expected error %t; got %v", index, spec.expErr, err)
		}
		if got := log.GetLevel(); got != spec.expLevel {
			t.Fatalf("[spec %d] expected level %d; got %d", index, spec.expLevel, got)
		}
	}
}
