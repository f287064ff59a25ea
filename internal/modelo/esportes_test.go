package modelo

import (
	"sort"
	"testing"
)

func TestCatalogoPadrao(t *testing.T) {
	cat := NovoCatalogoPadrao()
	ativos := cat.Ativos()
	if len(ativos) != len(EsportesValidos()) {
		t.Fatalf("catálogo padrão deveria ter todos ativos, obteve %v", ativos)
	}
	if !sort.StringsAreSorted(ativos) {
		t.Fatalf("ativos fora de ordem: %v", ativos)
	}
}

func TestCatalogoDefinir(t *testing.T) {
	cat := NovoCatalogoPadrao()
	if err := cat.Definir("natacao", false); err != nil {
		t.Fatalf("Definir: %v", err)
	}
	ativo, err := cat.Ativo("natacao")
	if err != nil {
		t.Fatalf("Ativo: %v", err)
	}
	if ativo {
		t.Fatal("natacao deveria estar inativa")
	}
	for _, nome := range cat.Ativos() {
		if nome == "natacao" {
			t.Fatal("esporte inativo não deveria aparecer em Ativos")
		}
	}

	if err := cat.Definir("xadrez", true); err == nil {
		t.Fatal("nome fora do catálogo deveria falhar")
	}
}

func TestCatalogoDeRegistro(t *testing.T) {
	cat, err := CatalogoDeRegistro(RegistroEsportes{"futsal": false})
	if err != nil {
		t.Fatalf("CatalogoDeRegistro: %v", err)
	}
	ativo, _ := cat.Ativo("futsal")
	if ativo {
		t.Fatal("flag persistida deveria prevalecer")
	}
	ativo, _ = cat.Ativo("volei")
	if !ativo {
		t.Fatal("nome ausente deveria permanecer ativo")
	}

	if _, err := CatalogoDeRegistro(RegistroEsportes{"xadrez": true}); err == nil {
		t.Fatal("registro com nome desconhecido deveria falhar")
	}
}
