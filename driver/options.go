package driver

import "github.com/sosoyan/aton/useropts"

// DeclareUserOptions parses a user options string and declares its clauses
// as user parameters on the options node.
func DeclareUserOptions(opts string) Stage {
	return func(gen *Generate) error {
		decls, err := useropts.Parse(opts)
		if err != nil {
			return err
		}
		gen.Universe.Options().Declare(decls)
		return nil
	}
}
