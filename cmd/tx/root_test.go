package tx

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ValentinKolb/txKV/lib/kverr"
	"github.com/ValentinKolb/txKV/rpc/common"
	rpctesting "github.com/ValentinKolb/txKV/rpc/testing"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runTx runs the tx command against a stub node and returns its output
func runTx(t *testing.T, node *rpctesting.StubNode, config common.ClientConfig, args ...string) (string, error) {
	t.Helper()
	viper.Set("url", config.Endpoints[0])
	viper.Set("path", config.Path)
	t.Cleanup(viper.Reset)

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	err := run(cmd, args)
	return out.String(), err
}

func TestRunCommit(t *testing.T) {
	node, config := rpctesting.NewTestServer(t)

	out, err := runTx(t, node, config, "write:k=v", "read:k", "commit")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	want := "write k: ok\nread  k: v\ncommit: ok\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
	if _, found := node.Get("k"); !found {
		t.Error("write not committed")
	}
}

func TestRunWithoutCommit(t *testing.T) {
	node, config := rpctesting.NewTestServer(t)

	out, err := runTx(t, node, config, "write:k=v")
	if err != nil {
		t.Fatal(err)
	}
	if out != "write k: ok\ntransaction not committed\n" {
		t.Errorf("got %q", out)
	}
}

func TestRunFailedCommit(t *testing.T) {
	node, config := rpctesting.NewTestServer(t)
	node.Override(common.MethodReqList, func(params []any) any {
		return map[string]any{
			"tlog": "t",
			"results": []any{
				map[string]any{"status": "ok"},
				map[string]any{"status": "fail", "reason": "abort"},
			},
		}
	})

	out, err := runTx(t, node, config, "write:k=v", "commit")
	if !errors.Is(err, kverr.ErrAbort) {
		t.Fatalf("expected abort, got %v", err)
	}
	want := "write k: ok\ncommit: " + kverr.Abort(map[string]any{"status": "fail", "reason": "abort"}).Error() + "\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}
