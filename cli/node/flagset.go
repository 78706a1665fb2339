package node

// FlagSet is a flag set backed by a map so that an action can run without
// parsing a command line.
//
// - implements cli.Flags
type FlagSet map[string]interface{}

// String implements cli.Flags. It returns an empty string when the flag is
// missing or is not a string.
func (fset FlagSet) String(name string) string {
	v, _ := fset[name].(string)

	return v
}

// Bool implements cli.Flags. It returns false when the flag is missing or is
// not a boolean.
func (fset FlagSet) Bool(name string) bool {
	v, _ := fset[name].(bool)

	return v
}
