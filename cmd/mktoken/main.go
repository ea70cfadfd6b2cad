// mktoken signs a development bearer token for exercising the API by
// hand. Production tokens come from the identity service.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"greenhill-schools/app/config"
	"greenhill-schools/app/models"
	"greenhill-schools/app/routes/auth"
)

func main() {
	id := flag.String("id", uuid.NewString(), "actor id (uuid)")
	name := flag.String("name", "Dev Teacher", "actor display name")
	role := flag.String("role", string(models.RoleClassTeacher), "actor role")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Configuration error: ", err)
	}

	actor := models.Actor{ID: *id, Name: *name, Role: models.Role(*role)}
	token, err := auth.IssueToken(cfg.JWTSecret, actor, *ttl)
	if err != nil {
		log.Fatal("Failed to sign token: ", err)
	}
	fmt.Println(token)
}
