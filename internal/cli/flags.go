package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/robert-malhotra/binscope/binscope"
)

// layoutFlags are the layout parameters shared by the file commands. Flags
// left unset fall back to the session.
type layoutFlags struct {
	start   int64
	phase   int32
	columns int32
	typ     string
}

// addLayoutFlags registers --start, --phase, --columns and --type.
func addLayoutFlags(fs *pflag.FlagSet, lf *layoutFlags) {
	fs.Int64Var(&lf.start, "start", 0, "Elements to skip before row 0 (bytes in text mode)")
	fs.Int32Var(&lf.phase, "phase", 0, "Bytes to skip before the first element")
	fs.Int32Var(&lf.columns, "columns", 1, "Elements per row")
	fs.StringVarP(&lf.typ, "type", "t", "int32", "Element type (text, int8, int16, int32, int64, float32, float64)")
}

// addCursorFlag registers --cursor, the position of the previous match.
func addCursorFlag(fs *pflag.FlagSet, cursor *int64) {
	fs.Int64Var(cursor, "cursor", -1, "Previous match position; the search continues after it")
}

// resolveLayout merges the flags set on the command line over the session
// values and records the result in the session.
func (a *app) resolveLayout(fs *pflag.FlagSet, lf *layoutFlags) (binscope.Layout, error) {
	s := a.session
	if fs.Changed("start") {
		s.Start = lf.start
	}
	if fs.Changed("phase") {
		s.Phase = lf.phase
	}
	if fs.Changed("columns") {
		s.Columns = lf.columns
	}
	if fs.Changed("type") {
		typ, err := binscope.ParseElementType(lf.typ)
		if err != nil {
			return binscope.Layout{}, err
		}
		s.Type = typ
	}
	return binscope.NewLayout(s.Start, s.Phase, s.Columns, s.Type)
}

// filePath picks the file named on the command line, or the session's.
func (a *app) filePath(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if a.session.File != "" {
		return a.session.File, nil
	}
	return "", errors.New("no file given and none saved in the session")
}

// openFile opens the file for a command and applies the session tuning.
func (a *app) openFile(args []string, extra ...binscope.Option) (*binscope.File, error) {
	path, err := a.filePath(args)
	if err != nil {
		return nil, err
	}
	opts := []binscope.Option{
		binscope.WithLogger(a.logger),
		binscope.WithThresholds(a.session.Thresholds),
		binscope.WithSampleBudget(a.session.SampleBudget),
		binscope.WithWindow(a.session.Window),
	}
	f, err := binscope.Open(path, append(opts, extra...)...)
	if err != nil {
		return nil, err
	}

	if a.session.File == path && a.session.Fingerprint != "" {
		fp, err := f.Fingerprint()
		if err != nil {
			a.logger.Warn().Err(err).Msg("fingerprinting file")
		} else if a.session.Stale(fp) {
			a.logger.Warn().Str("path", path).Msg("file changed since the session was saved")
		}
	}
	return f, nil
}

// finish saves the session when --save is set.
func (a *app) finish(f *binscope.File) error {
	if !a.save {
		return nil
	}
	fp, err := f.Fingerprint()
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	a.session.File = f.Path()
	a.session.Fingerprint = fp
	if err := a.loader.Save(a.session); err != nil {
		return err
	}
	a.logger.Info().Str("session", a.loader.Path()).Msg("session saved")
	return nil
}
