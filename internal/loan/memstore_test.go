package loan

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"
)

type memBook struct {
	titulo string
	stock  int
}

type memCliente struct {
	nombre   string
	apellido string
}

// memStore is an in-memory Repository and Transactor. WithinTx holds the
// store mutex for the whole callback and restores a snapshot on error, so
// concurrent transactions serialize the way row locks make them in Postgres.
type memStore struct {
	mu       sync.Mutex
	books    map[int64]memBook
	clientes map[int64]memCliente
	loans    map[int64]Loan
	nextID   int64
}

func newMemStore() *memStore {
	return &memStore{
		books:    map[int64]memBook{},
		clientes: map[int64]memCliente{},
		loans:    map[int64]Loan{},
	}
}

func (s *memStore) addBook(id int64, titulo string, stock int) {
	s.books[id] = memBook{titulo: titulo, stock: stock}
}

func (s *memStore) addCliente(id int64, nombre, apellido string) {
	s.clientes[id] = memCliente{nombre: nombre, apellido: apellido}
}

func (s *memStore) addLoan(libroID, clienteID int64, state State) int64 {
	s.nextID++
	l := Loan{
		ID: s.nextID, LibroID: libroID, ClienteID: clienteID, UsuarioID: 1,
		FechaPrestamo: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(s.nextID) * time.Hour),
		Estado:        state,
	}
	l.FechaDevolucionEsperada = l.FechaPrestamo.Add(Period)
	if state == StateReturned {
		at := l.FechaPrestamo.Add(24 * time.Hour)
		l.FechaDevolucionReal = &at
	}
	s.loans[l.ID] = l
	return l.ID
}

func (s *memStore) reads() Repository { return &memRepo{s: s} }

func (s *memStore) WithinTx(ctx context.Context, fn func(repo Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, clientes, loans, nextID := maps.Clone(s.books), maps.Clone(s.clientes), maps.Clone(s.loans), s.nextID
	if err := fn(&memRepo{s: s, inTx: true}); err != nil {
		s.books, s.clientes, s.loans, s.nextID = books, clientes, loans, nextID
		return err
	}
	return nil
}

type memRepo struct {
	s    *memStore
	inTx bool
}

func (r *memRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *memRepo) withRefs(l Loan) Loan {
	b := r.s.books[l.LibroID]
	c := r.s.clientes[l.ClienteID]
	l.Libro = &BookRef{ID: l.LibroID, Titulo: b.titulo}
	l.Cliente = &ClienteRef{ID: l.ClienteID, Nombre: c.nombre, Apellido: c.apellido}
	l.Usuario = &UserRef{ID: l.UsuarioID}
	return l
}

func (r *memRepo) sorted(keep func(Loan) bool) []Loan {
	out := []Loan{}
	for _, l := range r.s.loans {
		if keep(l) {
			out = append(out, r.withRefs(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memRepo) countActive(keep func(Loan) bool) int {
	n := 0
	for _, l := range r.s.loans {
		if l.Estado == StateActive && keep(l) {
			n++
		}
	}
	return n
}

func (r *memRepo) LockBook(_ context.Context, id int64) (LockedBook, error) {
	defer r.lock()()
	b, ok := r.s.books[id]
	if !ok {
		return LockedBook{}, ErrBookNotFound
	}
	return LockedBook{ID: id, Titulo: b.titulo, CantidadDisponible: b.stock}, nil
}

func (r *memRepo) LockCliente(_ context.Context, id int64) (LockedCliente, error) {
	defer r.lock()()
	c, ok := r.s.clientes[id]
	if !ok {
		return LockedCliente{}, ErrClienteNotFound
	}
	return LockedCliente{ID: id, Nombre: c.nombre, Apellido: c.apellido}, nil
}

func (r *memRepo) BookStock(_ context.Context, bookID int64) (int, bool, error) {
	defer r.lock()()
	b, ok := r.s.books[bookID]
	return b.stock, ok, nil
}

func (r *memRepo) BookStocks(_ context.Context, bookIDs []int64) (map[int64]int, error) {
	defer r.lock()()
	out := map[int64]int{}
	for _, id := range bookIDs {
		if b, ok := r.s.books[id]; ok {
			out[id] = b.stock
		}
	}
	return out, nil
}

func (r *memRepo) ClienteExists(_ context.Context, clienteID int64) (bool, error) {
	defer r.lock()()
	_, ok := r.s.clientes[clienteID]
	return ok, nil
}

func (r *memRepo) CountActiveByBook(_ context.Context, bookID int64) (int, error) {
	defer r.lock()()
	return r.countActive(func(l Loan) bool { return l.LibroID == bookID }), nil
}

func (r *memRepo) CountActiveByBooks(_ context.Context, bookIDs []int64) (map[int64]int, error) {
	defer r.lock()()
	out := map[int64]int{}
	for _, id := range bookIDs {
		if n := r.countActive(func(l Loan) bool { return l.LibroID == id }); n > 0 {
			out[id] = n
		}
	}
	return out, nil
}

func (r *memRepo) CountActiveByCliente(_ context.Context, clienteID int64) (int, error) {
	defer r.lock()()
	return r.countActive(func(l Loan) bool { return l.ClienteID == clienteID }), nil
}

func (r *memRepo) FirstActiveByBook(_ context.Context, bookID int64) (Loan, bool, error) {
	defer r.lock()()
	found := r.sorted(func(l Loan) bool { return l.LibroID == bookID && l.Active() })
	if len(found) == 0 {
		return Loan{}, false, nil
	}
	return found[0], true, nil
}

func (r *memRepo) ActiveByCliente(_ context.Context, clienteID int64) (Loan, bool, error) {
	defer r.lock()()
	found := r.sorted(func(l Loan) bool { return l.ClienteID == clienteID && l.Active() })
	if len(found) == 0 {
		return Loan{}, false, nil
	}
	return found[0], true, nil
}

func (r *memRepo) Insert(_ context.Context, l *Loan) error {
	defer r.lock()()
	if r.countActive(func(o Loan) bool { return o.ClienteID == l.ClienteID }) > 0 {
		return errClienteHasLoan("")
	}
	r.s.nextID++
	l.ID = r.s.nextID
	r.s.loans[l.ID] = *l
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id int64) (Loan, error) {
	defer r.lock()()
	l, ok := r.s.loans[id]
	if !ok {
		return Loan{}, ErrNotFound
	}
	return r.withRefs(l), nil
}

func (r *memRepo) MarkReturned(_ context.Context, id int64, at time.Time) (bool, error) {
	defer r.lock()()
	l, ok := r.s.loans[id]
	if !ok || !l.Active() {
		return false, nil
	}
	l.Estado = StateReturned
	l.FechaDevolucionReal = &at
	r.s.loans[id] = l
	return true, nil
}

func (r *memRepo) ListByState(_ context.Context, state State) ([]Loan, error) {
	defer r.lock()()
	return r.sorted(func(l Loan) bool { return l.Estado == state }), nil
}

func (r *memRepo) ListActiveByBook(_ context.Context, bookID int64) ([]Loan, error) {
	defer r.lock()()
	return r.sorted(func(l Loan) bool { return l.LibroID == bookID && l.Active() }), nil
}

func (r *memRepo) deleteLoans(keep func(Loan) bool) int64 {
	var n int64
	for id, l := range r.s.loans {
		if keep(l) {
			delete(r.s.loans, id)
			n++
		}
	}
	return n
}

func (r *memRepo) DeleteReturnedByBook(_ context.Context, bookID int64) (int64, error) {
	defer r.lock()()
	return r.deleteLoans(func(l Loan) bool { return l.LibroID == bookID && !l.Active() }), nil
}

func (r *memRepo) DeleteByCliente(_ context.Context, clienteID int64) (int64, error) {
	defer r.lock()()
	return r.deleteLoans(func(l Loan) bool { return l.ClienteID == clienteID }), nil
}

func (r *memRepo) DeleteBook(_ context.Context, id int64) error {
	defer r.lock()()
	if _, ok := r.s.books[id]; !ok {
		return ErrBookNotFound
	}
	delete(r.s.books, id)
	return nil
}

func (r *memRepo) DeleteCliente(_ context.Context, id int64) error {
	defer r.lock()()
	if _, ok := r.s.clientes[id]; !ok {
		return ErrClienteNotFound
	}
	delete(r.s.clientes, id)
	return nil
}
