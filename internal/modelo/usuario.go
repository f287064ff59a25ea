package modelo

import (
	"strings"

	"github.com/escolalivre/comunidade/internal/util"
)

// Tipo discrimina a variante de conta. Substitui a herança do app
// original por uma união etiquetada: contas `aluno` possuem um
// PerfilAluno vinculado pela mesma chave; contas `responsavel` não.
type Tipo string

const (
	TipoAluno       Tipo = "aluno"
	TipoResponsavel Tipo = "responsavel"
)

// ValidarTipo confere a etiqueta contra as variantes aceitas.
func ValidarTipo(t Tipo) error {
	switch t {
	case TipoAluno, TipoResponsavel:
		return nil
	}
	return NovoErroValidacao("tipo inválido: use %s ou %s", TipoAluno, TipoResponsavel)
}

// Usuario é instantâneo validado do registro em `usuarios/{uid}`.
// Identidade é o UID; dois usuários são o mesmo quando os UIDs coincidem,
// independente dos demais campos.
type Usuario struct {
	UID      string
	Nome     string
	Email    string
	Tipo     Tipo
	Esportes []string
}

// RegistroUsuario é a forma persistida em `usuarios/{uid}`.
type RegistroUsuario struct {
	Nome     string   `json:"nome"`
	Email    string   `json:"email"`
	Tipo     Tipo     `json:"tipo"`
	Esportes []string `json:"esportes"`
}

// NovoUsuario valida todos os campos e devolve o usuário completo, ou
// ErroValidacao sem estado parcial.
func NovoUsuario(uid, nome, email string, tipo Tipo, esportes []string) (Usuario, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return Usuario{}, NovoErroValidacao("uid inválido: deve ser string não vazia")
	}

	nome = strings.TrimSpace(nome)
	if len([]rune(nome)) < 3 {
		return Usuario{}, NovoErroValidacao("nome inválido: mínimo 3 caracteres")
	}

	email = strings.TrimSpace(email)
	if err := util.ValidarEmail(email); err != nil {
		return Usuario{}, NovoErroValidacao("e-mail inválido")
	}

	if err := ValidarTipo(tipo); err != nil {
		return Usuario{}, err
	}

	lista, err := validarEsportes(esportes)
	if err != nil {
		return Usuario{}, err
	}

	return Usuario{UID: uid, Nome: nome, Email: email, Tipo: tipo, Esportes: lista}, nil
}

// UsuarioDeRegistro reconstrói o usuário validando o registro lido.
func UsuarioDeRegistro(uid string, reg RegistroUsuario) (Usuario, error) {
	return NovoUsuario(uid, reg.Nome, reg.Email, reg.Tipo, reg.Esportes)
}

// ParaRegistro projeta o usuário para persistência. A validação acontece
// na construção; aqui é só a projeção exportadora.
func (u Usuario) ParaRegistro() RegistroUsuario {
	esportes := u.Esportes
	if esportes == nil {
		esportes = []string{}
	}
	return RegistroUsuario{Nome: u.Nome, Email: u.Email, Tipo: u.Tipo, Esportes: esportes}
}

// Validar reconfere todas as invariantes. Protege os DAOs contra
// valores zero construídos fora de NovoUsuario.
func (u Usuario) Validar() error {
	_, err := NovoUsuario(u.UID, u.Nome, u.Email, u.Tipo, u.Esportes)
	return err
}

// RequerPerfilAluno indica se a variante exige registro em `alunos/{uid}`.
func (u Usuario) RequerPerfilAluno() bool {
	return u.Tipo == TipoAluno
}
