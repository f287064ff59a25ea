package modelo

import (
	"net/url"
	"strings"
)

// PerfilAluno é o registro em `alunos/{uid}`, vinculado ao Usuario de
// mesmo UID por referência fraca (igualdade de chave, sem cascata). O
// campo Esportes daqui é a lista de participação consumida pelas telas;
// pode divergir de Usuario.Esportes pois os dois nunca são gravados
// atomicamente.
type PerfilAluno struct {
	UID      string
	Nome     string
	Foto     *string
	Esportes []string
}

// RegistroAluno é a forma persistida em `alunos/{uid}`. Foto ausente é
// gravada como string vazia, como o app original fazia.
type RegistroAluno struct {
	Nome     string   `json:"nome"`
	Foto     string   `json:"foto"`
	Esportes []string `json:"esportes"`
}

// NovoPerfilAluno valida e devolve o perfil completo.
func NovoPerfilAluno(uid, nome string, foto *string, esportes []string) (PerfilAluno, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return PerfilAluno{}, NovoErroValidacao("uid inválido: deve ser string não vazia")
	}

	nome = strings.TrimSpace(nome)
	if len([]rune(nome)) < 3 {
		return PerfilAluno{}, NovoErroValidacao("nome inválido: mínimo 3 caracteres")
	}

	if foto != nil && *foto == "" {
		foto = nil
	}
	if foto != nil {
		if err := validarFoto(*foto); err != nil {
			return PerfilAluno{}, err
		}
	}

	lista, err := validarEsportes(esportes)
	if err != nil {
		return PerfilAluno{}, err
	}

	return PerfilAluno{UID: uid, Nome: nome, Foto: foto, Esportes: lista}, nil
}

// PerfilAlunoDeRegistro reconstrói o perfil validando o registro lido.
func PerfilAlunoDeRegistro(uid string, reg RegistroAluno) (PerfilAluno, error) {
	var foto *string
	if reg.Foto != "" {
		f := reg.Foto
		foto = &f
	}
	return NovoPerfilAluno(uid, reg.Nome, foto, reg.Esportes)
}

// ParaRegistro projeta o perfil para persistência.
func (p PerfilAluno) ParaRegistro() RegistroAluno {
	esportes := p.Esportes
	if esportes == nil {
		esportes = []string{}
	}
	foto := ""
	if p.Foto != nil {
		foto = *p.Foto
	}
	return RegistroAluno{Nome: p.Nome, Foto: foto, Esportes: esportes}
}

// Validar reconfere todas as invariantes do perfil.
func (p PerfilAluno) Validar() error {
	_, err := NovoPerfilAluno(p.UID, p.Nome, p.Foto, p.Esportes)
	return err
}

// ComEsportes devolve cópia do perfil com nova lista de participação,
// validada. O perfil original não é alterado.
func (p PerfilAluno) ComEsportes(esportes []string) (PerfilAluno, error) {
	lista, err := validarEsportes(esportes)
	if err != nil {
		return PerfilAluno{}, err
	}
	novo := p
	novo.Esportes = lista
	return novo, nil
}

// Participa informa se o esporte já está na lista do perfil.
func (p PerfilAluno) Participa(nome string) bool {
	for _, e := range p.Esportes {
		if e == nome {
			return true
		}
	}
	return false
}

func validarFoto(foto string) error {
	u, err := url.Parse(foto)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return NovoErroValidacao("foto inválida: deve ser uma URL http(s)")
	}
	return nil
}
