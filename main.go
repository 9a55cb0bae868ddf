/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package main

import (
	"github.com/josephgoksu/voltsight/cmd"
	"github.com/josephgoksu/voltsight/internal/logger"
)

func main() {
	defer logger.HandlePanic()
	cmd.Execute()
}
