package link

// SymbolID is an interned label name.
type SymbolID int

const SYMBOL_NONE = SymbolID(-1)

type symbol struct {
	name    string
	addr    uint16
	defined bool
}

// symtab interns label names and records their addresses. Order is the
// order labels were defined.
type symtab struct {
	ids     map[string]SymbolID
	symbols []symbol
	order   []SymbolID
}

func newSymtab() *symtab {
	return &symtab{ids: map[string]SymbolID{}}
}

func (st *symtab) intern(name string) SymbolID {
	if name == "" {
		return SYMBOL_NONE
	}
	id, ok := st.ids[name]
	if !ok {
		id = SymbolID(len(st.symbols))
		st.ids[name] = id
		st.symbols = append(st.symbols, symbol{name: name})
	}
	return id
}

func (st *symtab) name(id SymbolID) string {
	return st.symbols[id].name
}

// define sets the address of a symbol. A symbol already defined keeps
// its first address, which is returned with dup set.
func (st *symtab) define(id SymbolID, addr uint16) (prev uint16, dup bool) {
	sym := &st.symbols[id]
	if sym.defined {
		return sym.addr, true
	}
	sym.addr = addr
	sym.defined = true
	st.order = append(st.order, id)
	return
}

func (st *symtab) lookup(id SymbolID) (addr uint16, ok bool) {
	sym := st.symbols[id]
	return sym.addr, sym.defined
}
