package modelo

import "sort"

// Nomes válidos do catálogo. O conjunto é fechado: nenhum outro nome é
// aceito em campos `esportes` de usuários, alunos ou publicações.
var nomesCatalogo = []string{
	"basquete",
	"cheerleading",
	"futsal",
	"geral",
	"handebol",
	"natacao",
	"volei",
}

// EsportesValidos devolve os nomes aceitos pelo catálogo, em ordem
// alfabética.
func EsportesValidos() []string {
	out := make([]string, len(nomesCatalogo))
	copy(out, nomesCatalogo)
	return out
}

// EsporteValido informa se o nome pertence ao catálogo.
func EsporteValido(nome string) bool {
	for _, n := range nomesCatalogo {
		if n == nome {
			return true
		}
	}
	return false
}

// CatalogoEsportes mapeia cada esporte do catálogo para sua flag de
// atividade. É o registro único gravado no caminho `esportes`.
type CatalogoEsportes struct {
	ativos map[string]bool
}

// RegistroEsportes é a projeção do catálogo no armazém de registros.
type RegistroEsportes map[string]bool

// NovoCatalogoPadrao cria catálogo com todos os esportes ativos.
func NovoCatalogoPadrao() CatalogoEsportes {
	m := make(map[string]bool, len(nomesCatalogo))
	for _, n := range nomesCatalogo {
		m[n] = true
	}
	return CatalogoEsportes{ativos: m}
}

// CatalogoDeRegistro valida e reconstrói o catálogo a partir do registro
// persistido. Nomes fora do catálogo são rejeitados; nomes ausentes
// permanecem com a flag padrão (ativo).
func CatalogoDeRegistro(reg RegistroEsportes) (CatalogoEsportes, error) {
	cat := NovoCatalogoPadrao()
	for nome, ativo := range reg {
		if err := cat.Definir(nome, ativo); err != nil {
			return CatalogoEsportes{}, err
		}
	}
	return cat, nil
}

// Definir altera a flag de um esporte do catálogo.
func (c CatalogoEsportes) Definir(nome string, ativo bool) error {
	if !EsporteValido(nome) {
		return NovoErroValidacao("esporte inválido: %s", nome)
	}
	c.ativos[nome] = ativo
	return nil
}

// Ativo informa a flag de um esporte do catálogo.
func (c CatalogoEsportes) Ativo(nome string) (bool, error) {
	if !EsporteValido(nome) {
		return false, NovoErroValidacao("esporte inválido: %s", nome)
	}
	return c.ativos[nome], nil
}

// Ativos lista os nomes com flag verdadeira, em ordem alfabética. É o
// universo de participação oferecido aos usuários.
func (c CatalogoEsportes) Ativos() []string {
	var out []string
	for nome, ativo := range c.ativos {
		if ativo {
			out = append(out, nome)
		}
	}
	sort.Strings(out)
	return out
}

// ParaRegistro exporta o catálogo completo para persistência.
func (c CatalogoEsportes) ParaRegistro() RegistroEsportes {
	out := make(RegistroEsportes, len(c.ativos))
	for nome, ativo := range c.ativos {
		out[nome] = ativo
	}
	return out
}

// validarEsportes verifica que todo nome pertence ao catálogo e remove
// duplicatas preservando a ordem.
func validarEsportes(esportes []string) ([]string, error) {
	out := make([]string, 0, len(esportes))
	vistos := make(map[string]struct{}, len(esportes))
	for _, nome := range esportes {
		if !EsporteValido(nome) {
			return nil, NovoErroValidacao("esporte inválido: %s", nome)
		}
		if _, ok := vistos[nome]; ok {
			continue
		}
		vistos[nome] = struct{}{}
		out = append(out, nome)
	}
	return out, nil
}
