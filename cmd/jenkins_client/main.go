package main

import (
	"fmt"
	"os"

	"github.com/promhippie/jenkins_client/pkg/command"
)

func main() {
	if err := command.LoadEnvFile(os.Getenv("JENKINS_CLIENT_ENV_FILE")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := command.Run(); err != nil {
		os.Exit(1)
	}
}
