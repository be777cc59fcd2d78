package repositories

import (
	"github.com/Masterminds/squirrel"
)

var SqBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
