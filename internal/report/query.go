package report

import (
	"biblioteca/internal/loan"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
)

const dialect = "postgres"

// searchColumns are the text columns a search term is matched against.
var searchColumns = []string{
	"l.titulo", "l.autor", "l.editorial", "l.isbn",
	"c.nombre", "c.apellido",
	"u.username",
}

// buildSearch renders the report query with positional arguments.
func buildSearch(f Filter) (string, []any, error) {
	ds := goqu.Dialect(dialect).
		From(goqu.T("prestamos").As("p")).
		Join(goqu.T("libros").As("l"), goqu.On(goqu.I("l.id").Eq(goqu.I("p.libro_id")))).
		Join(goqu.T("clientes").As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("p.cliente_id")))).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("p.usuario_id")))).
		Select(goqu.L(loan.SelectList)).
		Order(goqu.I("p.fecha_prestamo").Desc(), goqu.I("p.id").Desc()).
		Prepared(true)

	if f.Search != "" {
		pattern := containsPattern(f.Search)
		matches := make([]exp.Expression, 0, len(searchColumns)+1)
		for _, col := range searchColumns {
			matches = append(matches, goqu.I(col).ILike(pattern))
		}
		fullName := goqu.Func("concat", goqu.I("c.nombre"), " ", goqu.I("c.apellido"))
		matches = append(matches, fullName.ILike(pattern))
		ds = ds.Where(goqu.Or(matches...))
	}
	if f.Estado != nil {
		ds = ds.Where(goqu.I("p.estado").Eq(string(*f.Estado)))
	}

	return ds.ToSQL()
}
