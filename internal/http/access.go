package http

import (
	"net/http"
	"slices"
	"strings"

	"clinica/internal/services"
)

// Headers set by the authenticating proxy in front of the service.
const (
	HeaderClinicaID = "X-Clinica-ID"
	HeaderUserRole  = "X-User-Role"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleFinanceiro Role = "financeiro"
	RoleMedico     Role = "medico"
)

var (
	financialRoles    = []Role{RoleAdmin, RoleFinanceiro}
	productivityRoles = []Role{RoleAdmin, RoleFinanceiro, RoleMedico}
)

// rolesFor lists the roles allowed to read a report kind.
func rolesFor(kind services.Kind) []Role {
	if kind == services.KindProdutividade {
		return productivityRoles
	}
	return financialRoles
}

// Caller is the tenant and role of a request.
type Caller struct {
	ClinicaID string
	Role      Role
}

func (c Caller) Can(allowed []Role) bool {
	return slices.Contains(allowed, c.Role)
}

// callerFrom reads the caller headers. A missing tenant is a 400.
func callerFrom(r *http.Request) (Caller, *ResponseBuilder) {
	clinicaID := sanitizeInput(r.Header.Get(HeaderClinicaID))
	if clinicaID == "" {
		return Caller{}, BadRequestError("Cabeçalho " + HeaderClinicaID + " obrigatório")
	}
	return Caller{
		ClinicaID: clinicaID,
		Role:      Role(strings.ToLower(sanitizeInput(r.Header.Get(HeaderUserRole)))),
	}, nil
}

// authorize resolves the caller and checks it against allowed.
func authorize(r *http.Request, allowed []Role) (Caller, *ResponseBuilder) {
	c, fail := callerFrom(r)
	if fail != nil {
		return Caller{}, fail
	}
	if !c.Can(allowed) {
		return Caller{}, ForbiddenError("Acesso negado para o perfil informado")
	}
	return c, nil
}
