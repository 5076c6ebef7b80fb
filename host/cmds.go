// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import "github.com/beevik/cmd"

// A command is the data stored with each entry of the command tree.
type command struct {
	cmd.CommandDescriptor
	handler func(*Host, cmd.Selection) error
}

// A commandGroup lists the commands of one tree for the help command.
type commandGroup struct {
	name     string
	brief    string
	commands []*command
	groups   []*commandGroup
}

var (
	cmds     *cmd.Tree
	cmdsHelp *commandGroup
	groups   = make(map[string]*commandGroup)
)

type treeBuilder struct {
	tree  *cmd.Tree
	group *commandGroup
}

func (b treeBuilder) add(d cmd.CommandDescriptor, handler func(*Host, cmd.Selection) error) {
	c := &command{CommandDescriptor: d, handler: handler}
	d.Data = c
	b.tree.AddCommand(d)
	b.group.commands = append(b.group.commands, c)
}

func (b treeBuilder) subtree(name, brief string) treeBuilder {
	g := &commandGroup{name: name, brief: brief}
	b.group.groups = append(b.group.groups, g)
	groups[name] = g
	return treeBuilder{
		tree:  b.tree.AddSubtree(cmd.TreeDescriptor{Name: name, Brief: brief}),
		group: g,
	}
}

func init() {
	cmdsHelp = &commandGroup{name: "mini6502"}
	root := treeBuilder{
		tree:  cmd.NewTree(cmd.TreeDescriptor{Name: "mini6502"}),
		group: cmdsHelp,
	}

	root.add(cmd.CommandDescriptor{
		Name:        "help",
		Description: "Display help for a command.",
		Usage:       "help [<command>]",
	}, (*Host).cmdHelp)
	root.add(cmd.CommandDescriptor{
		Name:  "assemble",
		Brief: "Assemble a file into memory",
		Description: "Run the assembler on the specified file, replacing the" +
			" contents of memory with the machine code and setting the cycle" +
			" budget. Nothing is written to disk; use the save command for" +
			" that. If you want verbose output, specify true as a second" +
			" parameter.",
		Usage: "assemble <filename> [<verbose>]",
	}, (*Host).cmdAssemble)

	// Breakpoint commands
	bp := root.subtree("breakpoint", "Breakpoint commands")
	bp.add(cmd.CommandDescriptor{
		Name:        "list",
		Brief:       "List breakpoints",
		Description: "List all current breakpoints.",
		Usage:       "breakpoint list",
	}, (*Host).cmdBreakpointList)
	bp.add(cmd.CommandDescriptor{
		Name:  "add",
		Brief: "Add a breakpoint",
		Description: "Add a breakpoint at the specified address." +
			" The breakpoint starts enabled.",
		Usage: "breakpoint add <address>",
	}, (*Host).cmdBreakpointAdd)
	bp.add(cmd.CommandDescriptor{
		Name:        "remove",
		Brief:       "Remove a breakpoint",
		Description: "Remove a breakpoint at the specified address.",
		Usage:       "breakpoint remove <address>",
	}, (*Host).cmdBreakpointRemove)
	bp.add(cmd.CommandDescriptor{
		Name:        "enable",
		Brief:       "Enable a breakpoint",
		Description: "Enable a previously added breakpoint.",
		Usage:       "breakpoint enable <address>",
	}, (*Host).cmdBreakpointEnable)
	bp.add(cmd.CommandDescriptor{
		Name:  "disable",
		Brief: "Disable a breakpoint",
		Description: "Disable a previously added breakpoint. This" +
			" prevents the breakpoint from being hit when running the" +
			" CPU.",
		Usage: "breakpoint disable <address>",
	}, (*Host).cmdBreakpointDisable)

	// Data breakpoint commands
	db := root.subtree("databreakpoint", "Data breakpoint commands")
	db.add(cmd.CommandDescriptor{
		Name:        "list",
		Brief:       "List data breakpoints",
		Description: "List all current data breakpoints.",
		Usage:       "databreakpoint list",
	}, (*Host).cmdDataBreakpointList)
	db.add(cmd.CommandDescriptor{
		Name:  "add",
		Brief: "Add a data breakpoint",
		Description: "Add a new data breakpoint at the specified" +
			" memory address. When the CPU stores data at this address, the" +
			" breakpoint will stop the CPU. Optionally, a byte" +
			" value may be specified, and the CPU will stop only" +
			" when this value is stored. The data breakpoint starts" +
			" enabled.",
		Usage: "databreakpoint add <address> [<value>]",
	}, (*Host).cmdDataBreakpointAdd)
	db.add(cmd.CommandDescriptor{
		Name:  "remove",
		Brief: "Remove a data breakpoint",
		Description: "Remove a previously added data breakpoint at" +
			" the specified memory address.",
		Usage: "databreakpoint remove <address>",
	}, (*Host).cmdDataBreakpointRemove)
	db.add(cmd.CommandDescriptor{
		Name:        "enable",
		Brief:       "Enable a data breakpoint",
		Description: "Enable a previously added data breakpoint.",
		Usage:       "databreakpoint enable <address>",
	}, (*Host).cmdDataBreakpointEnable)
	db.add(cmd.CommandDescriptor{
		Name:        "disable",
		Brief:       "Disable a data breakpoint",
		Description: "Disable a previously added data breakpoint.",
		Usage:       "databreakpoint disable <address>",
	}, (*Host).cmdDataBreakpointDisable)

	root.add(cmd.CommandDescriptor{
		Name:  "disassemble",
		Brief: "Disassemble code",
		Description: "Disassemble machine code starting at the requested" +
			" address. The number of instruction lines to disassemble may be" +
			" specified as an option. If no address is specified, the" +
			" disassembly continues from where the last disassembly left off.",
		Usage: "disassemble [<address>] [<lines>]",
	}, (*Host).cmdDisassemble)
	root.add(cmd.CommandDescriptor{
		Name:  "evaluate",
		Brief: "Evaluate an expression",
		Description: "Evaluate an integer expression. Hexadecimal values" +
			" are written with a leading $. The identifiers a, x, y, sp, pc," +
			" ps, budget and cycles hold the current CPU state.",
		Usage: "evaluate <expression>",
	}, (*Host).cmdEvaluate)

	// Memory commands
	me := root.subtree("memory", "Memory commands")
	me.add(cmd.CommandDescriptor{
		Name:  "dump",
		Brief: "Dump memory at address",
		Description: "Dump the contents of memory starting from the" +
			" specified address. The number of bytes to dump may be" +
			" specified as an option. If no address is specified, the" +
			" memory dump continues from where the last dump left off.",
		Usage: "memory dump [<address>] [<bytes>]",
	}, (*Host).cmdMemoryDump)
	me.add(cmd.CommandDescriptor{
		Name:  "set",
		Brief: "Set memory at address",
		Description: "Set the contents of memory starting from the specified" +
			" address. The values to assign should be a series of" +
			" space-separated byte values. You may use an expression for each" +
			" byte value.",
		Usage: "memory set <address> <byte> [<byte> ...]",
	}, (*Host).cmdMemorySet)

	root.add(cmd.CommandDescriptor{
		Name:        "quit",
		Brief:       "Quit the program",
		Description: "Quit the program.",
		Usage:       "quit",
	}, (*Host).cmdQuit)
	root.add(cmd.CommandDescriptor{
		Name:  "register",
		Brief: "View or change register values",
		Description: "When used without arguments, this command displays the current" +
			" contents of the CPU registers. When used with arguments, this" +
			" command changes the value of a register or one of the CPU's status" +
			" flags. Allowed register names include A, X, Y and PC. Allowed status" +
			" flag names include N (Negative), Z (Zero), C (Carry), I (InterruptDisable)," +
			" D (Decimal) and V (Overflow).",
		Usage: "register [<name> <value>]",
	}, (*Host).cmdRegister)
	root.add(cmd.CommandDescriptor{
		Name:  "reset",
		Brief: "Reset the CPU",
		Description: "Clear all CPU registers and restore the cycle budget" +
			" computed by the last assembly. Memory is left unchanged.",
		Usage: "reset",
	}, (*Host).cmdReset)
	root.add(cmd.CommandDescriptor{
		Name:  "run",
		Brief: "Run the CPU",
		Description: "Run the CPU until its cycle budget is spent, a breakpoint" +
			" is hit, an instruction faults, or the user types Ctrl-C.",
		Usage: "run [<address>]",
	}, (*Host).cmdRun)
	root.add(cmd.CommandDescriptor{
		Name:  "save",
		Brief: "Save the last assembly",
		Description: "Write the machine code and source map of the last" +
			" successful assembly to binary and map files next to its" +
			" source file.",
		Usage: "save",
	}, (*Host).cmdSave)
	root.add(cmd.CommandDescriptor{
		Name:  "set",
		Brief: "Set a configuration variable",
		Description: "Set the value of a configuration variable. To see the" +
			" current values of all configuration variables, type set" +
			" without any arguments.",
		Usage: "set [<var> <value>]",
	}, (*Host).cmdSet)
	root.add(cmd.CommandDescriptor{
		Name:  "step",
		Brief: "Step the CPU",
		Description: "Step the CPU by a single instruction. The number of" +
			" steps may be specified as an option.",
		Usage: "step [<count>]",
	}, (*Host).cmdStep)

	// Add command shortcuts.
	r := root.tree
	r.AddShortcut("a", "assemble")
	r.AddShortcut("b", "breakpoint")
	r.AddShortcut("bp", "breakpoint")
	r.AddShortcut("ba", "breakpoint add")
	r.AddShortcut("br", "breakpoint remove")
	r.AddShortcut("bl", "breakpoint list")
	r.AddShortcut("be", "breakpoint enable")
	r.AddShortcut("bd", "breakpoint disable")
	r.AddShortcut("d", "disassemble")
	r.AddShortcut("db", "databreakpoint")
	r.AddShortcut("dbp", "databreakpoint")
	r.AddShortcut("dbl", "databreakpoint list")
	r.AddShortcut("dba", "databreakpoint add")
	r.AddShortcut("dbr", "databreakpoint remove")
	r.AddShortcut("dbe", "databreakpoint enable")
	r.AddShortcut("dbd", "databreakpoint disable")
	r.AddShortcut("e", "evaluate")
	r.AddShortcut("m", "memory dump")
	r.AddShortcut("ms", "memory set")
	r.AddShortcut("r", "register")
	r.AddShortcut("s", "step")
	r.AddShortcut("?", "help")
	r.AddShortcut(".", "register")

	cmds = r
}
