package data

import _ "embed"

//go:embed mock_osl_per.json
var MockOSLPER []byte
