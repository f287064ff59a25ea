package registro

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RTDB fala o protocolo REST do Firebase Realtime Database: cada caminho
// vira `{base}/{caminho}.json`, e a revisão é o ETag do nó, aceito em
// gravações condicionais via `if-match`.
type RTDB struct {
	base  string
	token string
	http  *http.Client
}

// NovoRTDB cria cliente para a URL base do banco (ex.:
// https://projeto.firebaseio.com). O token, quando presente, é anexado
// como parâmetro `auth` em toda chamada.
func NovoRTDB(base, token string) (*RTDB, error) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return nil, errors.New("registro: URL base do RTDB obrigatória")
	}
	return &RTDB{
		base:  base,
		token: token,
		http:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (r *RTDB) url(caminho string) string {
	u := r.base + "/" + caminho + ".json"
	if r.token != "" {
		u += "?auth=" + r.token
	}
	return u
}

func (r *RTDB) Obter(ctx context.Context, caminho string) (Snapshot, error) {
	if _, err := validarCaminho(caminho); err != nil {
		return Snapshot{}, falhaStore("obter", caminho, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url(caminho), nil)
	if err != nil {
		return Snapshot{}, falhaStore("obter", caminho, err)
	}
	req.Header.Set("X-Firebase-ETag", "true")

	resp, err := r.http.Do(req)
	if err != nil {
		return Snapshot{}, falhaStore("obter", caminho, err)
	}
	defer resp.Body.Close()

	corpo, err := io.ReadAll(resp.Body)
	if err != nil {
		return Snapshot{}, falhaStore("obter", caminho, err)
	}
	if resp.StatusCode != http.StatusOK {
		return Snapshot{}, falhaStore("obter", caminho, erroHTTP(resp.StatusCode, corpo))
	}
	if string(bytes.TrimSpace(corpo)) == "null" {
		return Snapshot{}, ErrAusente
	}

	return Snapshot{Valor: corpo, Rev: resp.Header.Get("ETag")}, nil
}

func (r *RTDB) Gravar(ctx context.Context, caminho string, valor any) error {
	return r.escrever(ctx, http.MethodPut, caminho, valor, "")
}

func (r *RTDB) GravarSeRev(ctx context.Context, caminho string, valor any, rev string) error {
	return r.escrever(ctx, http.MethodPut, caminho, valor, rev)
}

func (r *RTDB) Mesclar(ctx context.Context, caminho string, campos map[string]any) error {
	return r.escrever(ctx, http.MethodPatch, caminho, campos, "")
}

func (r *RTDB) Acrescentar(ctx context.Context, caminho string, valor any) (string, error) {
	if _, err := validarCaminho(caminho); err != nil {
		return "", falhaStore("acrescentar", caminho, err)
	}

	corpo, err := json.Marshal(valor)
	if err != nil {
		return "", falhaStore("acrescentar", caminho, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url(caminho), bytes.NewReader(corpo))
	if err != nil {
		return "", falhaStore("acrescentar", caminho, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return "", falhaStore("acrescentar", caminho, err)
	}
	defer resp.Body.Close()

	saida, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", falhaStore("acrescentar", caminho, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", falhaStore("acrescentar", caminho, erroHTTP(resp.StatusCode, saida))
	}

	var gerado struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(saida, &gerado); err != nil || gerado.Name == "" {
		return "", falhaStore("acrescentar", caminho, errors.New("resposta sem chave gerada"))
	}
	return gerado.Name, nil
}

func (r *RTDB) Remover(ctx context.Context, caminho string) error {
	if _, err := validarCaminho(caminho); err != nil {
		return falhaStore("remover", caminho, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, r.url(caminho), nil)
	if err != nil {
		return falhaStore("remover", caminho, err)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return falhaStore("remover", caminho, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		corpo, _ := io.ReadAll(resp.Body)
		return falhaStore("remover", caminho, erroHTTP(resp.StatusCode, corpo))
	}
	return nil
}

func (r *RTDB) escrever(ctx context.Context, metodo, caminho string, valor any, rev string) error {
	op := strings.ToLower(metodo)
	if _, err := validarCaminho(caminho); err != nil {
		return falhaStore(op, caminho, err)
	}

	corpo, err := json.Marshal(valor)
	if err != nil {
		return falhaStore(op, caminho, err)
	}

	req, err := http.NewRequestWithContext(ctx, metodo, r.url(caminho), bytes.NewReader(corpo))
	if err != nil {
		return falhaStore(op, caminho, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if rev != "" {
		req.Header.Set("if-match", rev)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return falhaStore(op, caminho, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusPreconditionFailed {
		return ErrConflito
	}
	if resp.StatusCode != http.StatusOK {
		saida, _ := io.ReadAll(resp.Body)
		return falhaStore(op, caminho, erroHTTP(resp.StatusCode, saida))
	}
	return nil
}

func erroHTTP(status int, corpo []byte) error {
	msg := strings.TrimSpace(string(corpo))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return fmt.Errorf("HTTP %d: %s", status, msg)
}
