package modelo

import (
	"strings"
	"time"
)

// Publicacao é o registro em `publicacoes/{uid}`. O UID é gerado pelo
// armazém e fica vazio até a criação. Depois de criada, só muda por
// edição explícita, que preserva a data de criação original.
type Publicacao struct {
	UID         string
	Autor       string
	Titulo      string
	Conteudo    string
	DataCriacao string
	Esportes    []string
}

// RegistroPublicacao é a forma persistida em `publicacoes/{uid}`.
type RegistroPublicacao struct {
	Autor       string   `json:"autor"`
	Titulo      string   `json:"titulo"`
	Conteudo    string   `json:"conteudo"`
	DataCriacao string   `json:"data_criacao"`
	Esportes    []string `json:"esportes"`
}

// NovaPublicacao valida todos os campos. Diferente das demais entidades,
// Esportes não pode ser vazio: toda publicação é etiquetada com pelo
// menos um esporte.
func NovaPublicacao(uid, autor, titulo, conteudo, dataCriacao string, esportes []string) (Publicacao, error) {
	autor = strings.TrimSpace(autor)
	if len([]rune(autor)) < 3 {
		return Publicacao{}, NovoErroValidacao("autor inválido: mínimo 3 caracteres")
	}

	titulo = strings.TrimSpace(titulo)
	if len([]rune(titulo)) < 3 {
		return Publicacao{}, NovoErroValidacao("título inválido: mínimo 3 caracteres")
	}

	conteudo = strings.TrimSpace(conteudo)
	if len([]rune(conteudo)) < 3 {
		return Publicacao{}, NovoErroValidacao("conteúdo inválido: mínimo 3 caracteres")
	}

	if _, err := time.Parse(time.RFC3339, dataCriacao); err != nil {
		return Publicacao{}, NovoErroValidacao("data de criação inválida: use formato ISO-8601")
	}

	lista, err := validarEsportes(esportes)
	if err != nil {
		return Publicacao{}, err
	}
	if len(lista) == 0 {
		return Publicacao{}, NovoErroValidacao("esportes deve ter pelo menos um item")
	}

	return Publicacao{
		UID:         strings.TrimSpace(uid),
		Autor:       autor,
		Titulo:      titulo,
		Conteudo:    conteudo,
		DataCriacao: dataCriacao,
		Esportes:    lista,
	}, nil
}

// PublicacaoDeRegistro reconstrói a publicação validando o registro lido.
func PublicacaoDeRegistro(uid string, reg RegistroPublicacao) (Publicacao, error) {
	return NovaPublicacao(uid, reg.Autor, reg.Titulo, reg.Conteudo, reg.DataCriacao, reg.Esportes)
}

// ParaRegistro projeta a publicação para persistência. O UID é a chave
// do nó e não entra no corpo do registro.
func (p Publicacao) ParaRegistro() RegistroPublicacao {
	return RegistroPublicacao{
		Autor:       p.Autor,
		Titulo:      p.Titulo,
		Conteudo:    p.Conteudo,
		DataCriacao: p.DataCriacao,
		Esportes:    p.Esportes,
	}
}

// Validar reconfere todas as invariantes da publicação.
func (p Publicacao) Validar() error {
	_, err := NovaPublicacao(p.UID, p.Autor, p.Titulo, p.Conteudo, p.DataCriacao, p.Esportes)
	return err
}

// Instante devolve a data de criação como time.Time. A string foi
// validada na construção.
func (p Publicacao) Instante() time.Time {
	t, _ := time.Parse(time.RFC3339, p.DataCriacao)
	return t
}

// Etiquetada informa se a publicação carrega o esporte informado.
func (p Publicacao) Etiquetada(esporte string) bool {
	for _, e := range p.Esportes {
		if e == esporte {
			return true
		}
	}
	return false
}
