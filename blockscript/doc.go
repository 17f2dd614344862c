// Package blockscript builds linker input from a Starlark script.
//
// A script describes code and data blocks with a handful of builtins:
//
//	const("COUNT", 10)
//	code([
//	    insn("lc", rd=R0, label="COUNT"),
//	    insn("lea", rd=R1, label="msg"),
//	    insn("trap", imm=0x22),
//	    insn("brnzp", label="main"),
//	], addr=USER_CODE, labels=["main"])
//	data([stringz("Hello")], labels=["msg"])
//
// The memory map and machine constants are predeclared as integers, as
// are R0 through R7. Instructions record the script line that created
// them for debug information.
package blockscript
