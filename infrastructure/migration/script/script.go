package main

import (
	"database/sql"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       JSONB NOT NULL,
	PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS documents_data_gin ON documents USING GIN (data jsonb_path_ops);
`

// export é o arquivo de carga: coleção -> lista de documentos
type export map[string][]map[string]any

func setupLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.Info("Iniciando script de migração...")
}

func createSchema(db *sql.DB) {
	logrus.Info("Criando tabela documents...")
	if _, err := db.Exec(schema); err != nil {
		logrus.Fatalf("ERRO ao criar tabela documents: %v", err)
	}
	logrus.Info("Tabela documents pronta")
}

func readExport(path string) export {
	raw, err := os.ReadFile(path)
	if err != nil {
		logrus.Fatalf("ERRO ao ler arquivo de carga %s: %v", path, err)
	}

	var data export
	if err := json.Unmarshal(raw, &data); err != nil {
		logrus.Fatalf("ERRO ao decodificar arquivo de carga %s: %v", path, err)
	}
	return data
}

// documentID usa _id ou id do próprio documento, gerando um novo quando ausente
func documentID(doc map[string]any) string {
	for _, key := range []string{"_id", "id"} {
		if v, ok := doc[key].(string); ok && v != "" {
			delete(doc, key)
			return v
		}
	}

	id, err := utils.GenerateID()
	if err != nil {
		logrus.Fatalf("ERRO ao gerar id: %v", err)
	}
	return id
}

func upsertDocument(tx *sql.Tx, collection, id string, doc map[string]any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	query, args, err := squirrel.
		Insert("documents").
		Columns("collection", "id", "data").
		Values(collection, id, string(data)).
		Suffix("ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = tx.Exec(query, args...)
	return err
}

func insertCollection(tx *sql.Tx, collection string, docs []map[string]any) {
	logrus.Infof("Iniciando inserção de %d documentos em %s...", len(docs), collection)
	startTime := time.Now()

	successCount := 0
	errorCount := 0

	for i, doc := range docs {
		id := documentID(doc)
		if err := upsertDocument(tx, collection, id, doc); err != nil {
			logrus.Errorf("ERRO ao inserir %s [%d/%d] %s: %v", collection, i+1, len(docs), id, err)
			errorCount++
			continue
		}
		successCount++
		if i > 0 && i%100 == 0 {
			logrus.Infof("Progresso: %d/%d documentos de %s processados", i+1, len(docs), collection)
		}
	}

	logrus.Infof("Inserção de %s concluída em %v. Sucesso: %d, Erros: %d",
		collection, time.Since(startTime), successCount, errorCount)
}

func seedUser(tx *sql.Tx, email, password, name string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logrus.Fatalf("ERRO ao gerar hash da senha: %v", err)
	}

	id, err := utils.GenerateID()
	if err != nil {
		logrus.Fatalf("ERRO ao gerar id: %v", err)
	}

	doc := map[string]any{
		domain.UserFieldEmail:        strings.ToLower(strings.TrimSpace(email)),
		domain.UserFieldPasswordHash: string(hash),
		domain.UserFieldName:         name,
		domain.UserFieldActive:       true,
	}
	if err := upsertDocument(tx, domain.UserCollection, id, doc); err != nil {
		logrus.Fatalf("ERRO ao inserir usuário %s: %v", email, err)
	}
	logrus.Infof("Usuário %s criado com id %s", email, id)
}

func main() {
	file := flag.String("file", "", "arquivo JSON no formato {\"Sale\": [...], \"Client\": [...]}")
	userEmail := flag.String("user-email", "", "e-mail do usuário a criar")
	userPassword := flag.String("user-password", "", "senha do usuário a criar")
	userName := flag.String("user-name", "Administrador", "nome do usuário a criar")
	flag.Parse()

	setupLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("ERRO ao carregar configuração: %v", err)
	}

	logrus.Info("Conectando ao banco de dados...")
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		logrus.Fatalf("ERRO ao conectar ao banco de dados: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logrus.Fatalf("ERRO ao verificar conexão com o banco: %v", err)
	}
	logrus.Info("Conexão com o banco de dados estabelecida com sucesso")

	createSchema(db)

	startTime := time.Now()
	tx, err := db.Begin()
	if err != nil {
		logrus.Fatalf("ERRO ao iniciar transação: %v", err)
	}

	if *file != "" {
		for collection, docs := range readExport(*file) {
			insertCollection(tx, collection, docs)
		}
	}

	if *userEmail != "" && *userPassword != "" {
		seedUser(tx, *userEmail, *userPassword, *userName)
	}

	if err := tx.Commit(); err != nil {
		logrus.Errorf("ERRO ao confirmar transação: %v", err)
		if err := tx.Rollback(); err != nil {
			logrus.Fatalf("ERRO ao reverter transação: %v", err)
		}
		logrus.Info("Transação revertida")
		os.Exit(1)
	}

	logrus.Infof("Carga concluída em %v!", time.Since(startTime))
}
