// token emite un JWT de desarrollo firmado con JWT_SECRET para probar la API sin proveedor de identidad.
//
// Uso: go run ./cmd/token <user_id> [admin|bodeguero|vendedor]
// Por defecto el rol es bodeguero. Imprime el token en stdout.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/Inventario-pallets/pkg/config"
	"github.com/jhoicas/Inventario-pallets/pkg/jwt"
)

var roles = map[string]bool{"admin": true, "bodeguero": true, "vendedor": true}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: token <user_id> [rol]")
		os.Exit(2)
	}
	userID := os.Args[1]
	role := "bodeguero"
	if len(os.Args) > 2 {
		role = os.Args[2]
	}
	if !roles[role] {
		fmt.Fprintf(os.Stderr, "rol desconocido: %s\n", role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if cfg.App.Env == "production" {
		fmt.Fprintln(os.Stderr, "token de desarrollo no permitido en production")
		os.Exit(1)
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, userID, role, cfg.JWT.Issuer, time.Duration(cfg.JWT.Expiration)*time.Minute)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
