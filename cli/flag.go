package cli

// StringFlag is a definition of a command flag expected to be parsed as a
// string. When Env is set, the variable of that name is used if the flag is
// missing from the command line.
//
// - implements cli.Flag
type StringFlag struct {
	Name     string
	Usage    string
	Env      string
	Required bool
	Value    string
}

// Flag implements cli.Flag.
func (flag StringFlag) Flag() {}

// BoolFlag is a definition of a command flag that is either present or not.
//
// - implements cli.Flag
type BoolFlag struct {
	Name  string
	Usage string
	Env   string
}

// Flag implements cli.Flag.
func (flag BoolFlag) Flag() {}
