package main

import (
	"go.uber.org/fx"

	"github.com/nodcareer/orderflow/internal/app"
)

func main() {
	fx.New(app.Module).Run()
}
