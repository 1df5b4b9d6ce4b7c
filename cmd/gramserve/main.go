/*
Gramserve starts a gramlex grammar registry service and begins listening for
HTTP requests.

Usage:

	gramserve [flags]
	gramserve [flags] -l [[ADDRESS]:PORT]

Once started, gramserve will listen for HTTP requests and respond to them
using REST protocol. By default it listens on localhost:8080; this can be
changed with the --listen/-l flag (or the environment variable below).
Callers exchange the configured API secret for a short-lived JWT at
POST /token and present that JWT to register or delete a grammar; parsing
and fetching are unauthenticated.

If a JWT signing secret is not given, one will be automatically generated
and seeded from the system's random source. As a consequence, in this mode
of operation all tokens are rendered invalid as soon as the server shuts
down. This is suitable for testing, but must be given via either CLI flags
or environment variable if running in production.

The flags are:

	-v, --version
		Give the current version of gramserve and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, defaults to the value of environment variable
		GRAMLEX_LISTEN_ADDRESS, and if that is not given, defaults to
		localhost:8080.

	-a, --api-secret API_SECRET
		Require the given secret at POST /token before a JWT is issued. If
		not given, defaults to the value of environment variable
		GRAMLEX_API_SECRET. If no secret is specified, one is generated
		randomly and printed to stderr once.

	-s, --sign-secret SIGNING_SECRET
		Use the provided secret for signing JWTs. If not given, defaults to
		the value of environment variable GRAMLEX_SIGNING_SECRET, and if
		that is not given, a random secret is generated (see above).

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of: inmem,
		sqlite. inmem has no further params. sqlite needs the path to the
		data directory, e.g. sqlite:path/to/db_dir. If not given, defaults to
		the value of environment variable GRAMLEX_DATABASE, and if that is
		empty, an in-memory database is selected.
*/
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/dekarrin/gramlex/gsvc"
)

const (
	EnvListen     = "GRAMLEX_LISTEN_ADDRESS"
	EnvAPISecret  = "GRAMLEX_API_SECRET"
	EnvSignSecret = "GRAMLEX_SIGNING_SECRET"
	EnvDB         = "GRAMLEX_DATABASE"

	version = "0.1.0"
)

var (
	flagVersion    = pflag.BoolP("version", "v", false, "Give the current version of gramserve and then exit.")
	flagListen     = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagAPISecret  = pflag.StringP("api-secret", "a", "", "Require the given secret at POST /token.")
	flagSignSecret = pflag.StringP("sign-secret", "s", "", "Use the given secret for signing JWTs.")
	flagDB         = pflag.String("db", "", "Use the given DB connection string.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("gramserve %s\n", version)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	addr, port, err := resolveListenAddr()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
		os.Exit(1)
	}

	db, err := resolveDatabase()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
		os.Exit(1)
	}

	store, err := db.Connect()
	if err != nil {
		log.Fatalf("FATAL could not connect to database: %s", err.Error())
	}
	defer store.Close()

	tokenHash, err := resolveAPISecretHash()
	if err != nil {
		log.Fatalf("FATAL could not prepare API secret: %s", err.Error())
	}

	signSecret, err := resolveSignSecret()
	if err != nil {
		log.Fatalf("FATAL could not prepare signing secret: %s", err.Error())
	}

	api := gsvc.API{
		Store:       store,
		TokenHash:   tokenHash,
		Secret:      signSecret,
		UnauthDelay: gsvc.DefaultUnauthDelay,
	}

	listenAddr := fmt.Sprintf("%s:%d", addr, port)
	log.Printf("INFO  Starting gramserve on %s...", listenAddr)
	if err := http.ListenAndServe(listenAddr, gsvc.NewRouter(api)); err != nil {
		log.Fatalf("FATAL server exited: %s", err.Error())
	}
}

func resolveListenAddr() (addr string, port int, err error) {
	addr = "localhost"
	port = 8080

	listenAddr := os.Getenv(EnvListen)
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr == "" {
		return addr, port, nil
	}

	bindParts := strings.SplitN(listenAddr, ":", 2)
	if len(bindParts) != 2 {
		return "", 0, fmt.Errorf("listen address is not in ADDRESS:PORT or :PORT format")
	}

	p, err := strconv.Atoi(bindParts[1])
	if err != nil {
		return "", 0, fmt.Errorf("%q is not a valid port number", bindParts[1])
	}

	return bindParts[0], p, nil
}

func resolveDatabase() (gsvc.Database, error) {
	dbConnStr := os.Getenv(EnvDB)
	if pflag.Lookup("db").Changed {
		dbConnStr = *flagDB
	}
	if dbConnStr == "" {
		return gsvc.Database{Type: gsvc.DatabaseInMemory}, nil
	}

	dbParts := strings.SplitN(dbConnStr, ":", 2)
	dbType, err := gsvc.ParseDBType(dbParts[0])
	if err != nil {
		return gsvc.Database{}, err
	}

	db := gsvc.Database{Type: dbType}
	if dbType == gsvc.DatabaseSQLite {
		if len(dbParts) != 2 || dbParts[1] == "" {
			return gsvc.Database{}, fmt.Errorf("sqlite DB requires a data directory: sqlite:path/to/db_dir")
		}
		db.DataDir = dbParts[1]
	}

	return db, db.Validate()
}

func resolveAPISecretHash() ([]byte, error) {
	secret := os.Getenv(EnvAPISecret)
	if pflag.Lookup("api-secret").Changed {
		secret = *flagAPISecret
	}

	if secret == "" {
		var err error
		secret, err = randomSecret(24)
		if err != nil {
			return nil, fmt.Errorf("generate random API secret: %w", err)
		}
		log.Printf("WARN  No API secret configured; generated one for this run: %s", secret)
	}

	return gsvc.HashToken(secret)
}

func resolveSignSecret() ([]byte, error) {
	secret := os.Getenv(EnvSignSecret)
	if pflag.Lookup("sign-secret").Changed {
		secret = *flagSignSecret
	}

	if secret == "" {
		var err error
		secret, err = randomSecret(32)
		if err != nil {
			return nil, fmt.Errorf("generate random signing secret: %w", err)
		}
		log.Printf("WARN  Using generated JWT signing secret; all tokens issued will become invalid at shutdown")
	}

	return []byte(secret), nil
}

func randomSecret(n int) (string, error) {
	raw := make([]byte, n)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
