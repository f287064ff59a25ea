package registro

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/escolalivre/comunidade/internal/util"
)

// Postgres implementa o armazém sobre uma tabela caminho→jsonb, para
// implantações que preferem banco próprio ao RTDB. Cada nó folha é uma
// linha; a leitura de um caminho sem linha própria monta o objeto com os
// filhos de primeiro nível. A revisão é a coluna rev, comparada na
// gravação condicional.
type Postgres struct {
	pool *pgxpool.Pool
}

const esquemaRegistros = `
CREATE TABLE IF NOT EXISTS registros (
    caminho TEXT PRIMARY KEY,
    dados   JSONB NOT NULL,
    rev     BIGINT NOT NULL DEFAULT 1
)`

// NovoPool abre pool de conexões e confere conectividade.
func NovoPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// NovoPostgres cria o armazém e garante o esquema.
func NovoPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	if _, err := pool.Exec(ctx, esquemaRegistros); err != nil {
		return nil, falhaStore("migrar", "registros", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Obter(ctx context.Context, caminho string) (Snapshot, error) {
	if _, err := validarCaminho(caminho); err != nil {
		return Snapshot{}, falhaStore("obter", caminho, err)
	}

	var dados []byte
	var rev int64
	err := p.pool.QueryRow(ctx,
		`SELECT dados, rev FROM registros WHERE caminho = $1`, caminho).
		Scan(&dados, &rev)
	if err == nil {
		return Snapshot{Valor: dados, Rev: strconv.FormatInt(rev, 10)}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Snapshot{}, falhaStore("obter", caminho, err)
	}

	// Sem linha própria: monta objeto com filhos de primeiro nível.
	rows, err := p.pool.Query(ctx,
		`SELECT caminho, dados FROM registros WHERE caminho LIKE $1 || '/%'`, caminho)
	if err != nil {
		return Snapshot{}, falhaStore("obter", caminho, err)
	}
	defer rows.Close()

	filhos := make(map[string]json.RawMessage)
	prefixo := caminho + "/"
	for rows.Next() {
		var filho string
		var corpo []byte
		if err := rows.Scan(&filho, &corpo); err != nil {
			return Snapshot{}, falhaStore("obter", caminho, err)
		}
		resto := strings.TrimPrefix(filho, prefixo)
		chave, _, aninhado := strings.Cut(resto, "/")
		if aninhado {
			// montagem rasa: só filhos diretos
			continue
		}
		filhos[chave] = corpo
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, falhaStore("obter", caminho, err)
	}
	if len(filhos) == 0 {
		return Snapshot{}, ErrAusente
	}

	bruto, err := json.Marshal(filhos)
	if err != nil {
		return Snapshot{}, falhaStore("obter", caminho, err)
	}
	return Snapshot{Valor: bruto}, nil
}

func (p *Postgres) Gravar(ctx context.Context, caminho string, valor any) error {
	if _, err := validarCaminho(caminho); err != nil {
		return falhaStore("gravar", caminho, err)
	}

	corpo, err := json.Marshal(valor)
	if err != nil {
		return falhaStore("gravar", caminho, err)
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO registros (caminho, dados) VALUES ($1, $2)
		ON CONFLICT (caminho)
		DO UPDATE SET dados = EXCLUDED.dados, rev = registros.rev + 1`,
		caminho, corpo)
	if err != nil {
		return falhaStore("gravar", caminho, err)
	}
	return nil
}

func (p *Postgres) GravarSeRev(ctx context.Context, caminho string, valor any, rev string) error {
	if _, err := validarCaminho(caminho); err != nil {
		return falhaStore("gravar-se-rev", caminho, err)
	}

	esperada, err := strconv.ParseInt(rev, 10, 64)
	if err != nil {
		return ErrConflito
	}

	corpo, err := json.Marshal(valor)
	if err != nil {
		return falhaStore("gravar-se-rev", caminho, err)
	}

	tag, err := p.pool.Exec(ctx, `
		UPDATE registros SET dados = $2, rev = rev + 1
		WHERE caminho = $1 AND rev = $3`,
		caminho, corpo, esperada)
	if err != nil {
		return falhaStore("gravar-se-rev", caminho, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflito
	}
	return nil
}

func (p *Postgres) Mesclar(ctx context.Context, caminho string, campos map[string]any) error {
	if _, err := validarCaminho(caminho); err != nil {
		return falhaStore("mesclar", caminho, err)
	}

	corpo, err := json.Marshal(campos)
	if err != nil {
		return falhaStore("mesclar", caminho, err)
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO registros (caminho, dados) VALUES ($1, $2)
		ON CONFLICT (caminho)
		DO UPDATE SET dados = registros.dados || EXCLUDED.dados, rev = registros.rev + 1`,
		caminho, corpo)
	if err != nil {
		return falhaStore("mesclar", caminho, err)
	}
	return nil
}

func (p *Postgres) Acrescentar(ctx context.Context, caminho string, valor any) (string, error) {
	if _, err := validarCaminho(caminho); err != nil {
		return "", falhaStore("acrescentar", caminho, err)
	}

	corpo, err := json.Marshal(valor)
	if err != nil {
		return "", falhaStore("acrescentar", caminho, err)
	}

	chave := util.NovaChave()
	_, err = p.pool.Exec(ctx,
		`INSERT INTO registros (caminho, dados) VALUES ($1, $2)`,
		caminho+"/"+chave, corpo)
	if err != nil {
		return "", falhaStore("acrescentar", caminho, err)
	}
	return chave, nil
}

func (p *Postgres) Remover(ctx context.Context, caminho string) error {
	if _, err := validarCaminho(caminho); err != nil {
		return falhaStore("remover", caminho, err)
	}

	_, err := p.pool.Exec(ctx,
		`DELETE FROM registros WHERE caminho = $1 OR caminho LIKE $1 || '/%'`,
		caminho)
	if err != nil {
		return falhaStore("remover", caminho, err)
	}
	return nil
}
