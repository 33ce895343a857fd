package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/rob-gra/go-bufr/descriptor"
	"github.com/rob-gra/go-bufr/table"
	"golang.org/x/sync/errgroup"
)

// runLookup resolves a comma-separated list of descriptor ids against one
// table bundle, per spec.md §6.3. Each id is resolved concurrently via
// errgroup; results are printed in input order once all resolve.
func runLookup(args []string) error {
	fs := flag.NewFlagSet("lookup", flag.ExitOnError)
	tf := bindTableFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("lookup: expected exactly one comma-separated id list argument")
	}

	idStrs := strings.Split(fs.Arg(0), ",")
	ids := make([]descriptor.ID, len(idStrs))
	for i, s := range idStrs {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("lookup: bad descriptor id %q: %w", s, err)
		}
		ids[i] = descriptor.ID(n)
	}

	mgr := table.NewManager()
	tg, err := mgr.Get(table.TableGroupID{
		BaseDir:           tf.tables,
		MasterTableNumber: tf.master,
		CentreNumber:      tf.centre,
		SubCentreNumber:   tf.subCentre,
		VersionNumber:     tf.version,
	})
	if err != nil {
		return fmt.Errorf("lookup: loading table bundle: %w", err)
	}

	results := make([]string, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			v, err := tg.Lookup(id)
			if err != nil {
				results[i] = fmt.Sprintf("%s: error: %v", id, err)
				return nil
			}
			results[i] = fmt.Sprintf("%s: %v", id, v)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, r := range results {
		fmt.Println(r)
	}
	return nil
}
