package tx

import (
	"fmt"
	"github.com/ValentinKolb/txKV/lib/reqlist"
	"strings"
)

// op is a single operation given on the command line
type op struct {
	kind  string // reqlist.OpRead, reqlist.OpWrite or reqlist.OpCommit
	key   string
	value string
}

// parseOps parses operations of the form read:KEY, write:KEY=VALUE and commit
func parseOps(args []string) ([]op, error) {
	ops := make([]op, 0, len(args))
	for _, arg := range args {
		kind, rest, _ := strings.Cut(arg, ":")
		switch kind {
		case reqlist.OpRead:
			if rest == "" {
				return nil, fmt.Errorf("missing key in %q", arg)
			}
			ops = append(ops, op{kind: kind, key: rest})
		case reqlist.OpWrite:
			key, value, found := strings.Cut(rest, "=")
			if !found || key == "" {
				return nil, fmt.Errorf("expected write:KEY=VALUE, got %q", arg)
			}
			ops = append(ops, op{kind: kind, key: key, value: value})
		case reqlist.OpCommit:
			if rest != "" {
				return nil, fmt.Errorf("commit takes no argument, got %q", arg)
			}
			ops = append(ops, op{kind: kind})
		default:
			return nil, fmt.Errorf("unknown operation %q (read:KEY, write:KEY=VALUE or commit)", arg)
		}
	}
	return ops, nil
}

// buildList adds all operations to list
func buildList(list *reqlist.List, ops []op) error {
	for _, o := range ops {
		var err error
		switch o.kind {
		case reqlist.OpRead:
			err = list.AddRead(o.key)
		case reqlist.OpWrite:
			err = list.AddWrite(o.key, o.value)
		case reqlist.OpCommit:
			err = list.AddCommit()
		}
		if err != nil {
			return err
		}
	}
	return nil
}
