package cliente

import (
	"context"
	"strings"
	"unicode/utf8"

	"biblioteca/internal/platform/apperr"
)

type Service struct {
	repo    Repository
	deleter Deleter
}

func NewService(repo Repository, deleter Deleter) *Service {
	return &Service{repo: repo, deleter: deleter}
}

func (s *Service) List(ctx context.Context) ([]Cliente, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (Cliente, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Cliente, error) {
	c := &Cliente{
		Nombre:               strings.TrimSpace(in.Nombre),
		Apellido:             strings.TrimSpace(in.Apellido),
		Correo:               strings.TrimSpace(in.Correo),
		Telefono:             in.Telefono,
		NumeroIdentificacion: in.NumeroIdentificacion,
	}
	if c.Nombre == "" || c.NumeroIdentificacion == "" {
		return Cliente{}, apperr.Validation("VALIDATION_ERROR", "nombre and numero_identificacion are required")
	}
	if err := s.checkNumero(ctx, c.NumeroIdentificacion, 0); err != nil {
		return Cliente{}, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Cliente{}, mapUniqueViolation(err)
	}
	return *c, nil
}

// Update applies a partial update with the same rules as Create.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Cliente, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Cliente{}, err
	}

	if in.NumeroIdentificacion != nil && *in.NumeroIdentificacion != c.NumeroIdentificacion {
		if err := s.checkNumero(ctx, *in.NumeroIdentificacion, id); err != nil {
			return Cliente{}, err
		}
		c.NumeroIdentificacion = *in.NumeroIdentificacion
	}
	if in.Nombre != nil {
		v := strings.TrimSpace(*in.Nombre)
		if v == "" {
			return Cliente{}, apperr.Validation("VALIDATION_ERROR", "nombre cannot be empty")
		}
		c.Nombre = v
	}
	if in.Apellido != nil {
		c.Apellido = strings.TrimSpace(*in.Apellido)
	}
	if in.Correo != nil {
		c.Correo = strings.TrimSpace(*in.Correo)
	}
	if in.Telefono != nil {
		c.Telefono = in.Telefono
	}

	if err := s.repo.Update(ctx, &c); err != nil {
		return Cliente{}, mapUniqueViolation(err)
	}
	return c, nil
}

// Delete removes the cliente and its returned loans. An active loan blocks it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.deleter.DeleteCliente(ctx, id)
}

func (s *Service) checkNumero(ctx context.Context, numero string, excludeID int64) error {
	if utf8.RuneCountInString(numero) != numeroLength {
		return ErrInvalidNumero.With("numero_identificacion", numero)
	}
	taken, err := s.repo.NumeroTaken(ctx, numero, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrNumeroTaken
	}
	return nil
}

func mapUniqueViolation(err error) error {
	ae, ok := apperr.As(err)
	if ok && ae.Code == "DUPLICATE_VALUE" && ae.Context["constraint"] == numeroConstraint {
		return ErrNumeroTaken
	}
	return err
}
