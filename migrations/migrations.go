package migrations

import "embed"

// Migration files are compiled into the binary so deployments never
// depend on files sitting next to the executable.
//
//go:embed sqlite/*.sql
var SqliteMigrations embed.FS

//go:embed postgres/*.sql
var PostgresMigrations embed.FS
