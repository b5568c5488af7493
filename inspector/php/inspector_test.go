package php_test

import (
	"context"
	"errors"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelens/webaudit/inspector/php"
)

func TestInspector_Declarations(t *testing.T) {
	source := `<?php
function loadUser($id, $cache) {
	return $id;
}

class OrderRepository {
	function findAll() {
		$sql = 'SELECT * FROM orders';
		return $sql;
	}
}
`
	inspector := php.NewInspector(nil)
	file, err := inspector.InspectSource([]byte(source))
	require.NoError(t, err)
	require.NotNil(t, file)

	fn := file.LookupFunction("loadUser")
	require.NotNil(t, fn, "expected loadUser to be registered")
	assert.Equal(t, []string{"$id", "$cache"}, fn.Params)

	class := file.LookupClass("OrderRepository")
	require.NotNil(t, class, "expected OrderRepository to be registered")
	assert.Equal(t, []string{"findAll"}, class.Methods)

	require.NotNil(t, file.LookupFunction("findAll"))

	require.Len(t, file.Queries, 1)
	assert.Equal(t, "SELECT * FROM orders", file.Queries[0].Text)
	assert.Equal(t, []string{"orders"}, file.Queries[0].Tables)
}

func TestInspector_ConditionalVariants(t *testing.T) {
	source := `<?php
if ($x > 5) {
	$query = 'SELECT * FROM t1';
} else {
	$query = 'SELECT * FROM t2';
}
`
	inspector := php.NewInspector(nil)
	file, err := inspector.InspectSource([]byte(source))
	require.NoError(t, err)

	require.Len(t, file.Conditionals, 2)
	assert.Equal(t, []string{"$x > 5"}, file.Conditionals[0].Conditions)
	assert.Equal(t, []string{"t1"}, file.Conditionals[0].Query.Tables)
	assert.Equal(t, []string{"else"}, file.Conditionals[1].Conditions)
	assert.Equal(t, []string{"t2"}, file.Conditionals[1].Query.Tables)
}

func TestInspector_NestedConditions(t *testing.T) {
	source := `<?php
if ($role == "admin") {
	if ($archived) {
		$query = 'SELECT * FROM archive_log';
	}
}
`
	inspector := php.NewInspector(nil)
	file, err := inspector.InspectSource([]byte(source))
	require.NoError(t, err)

	require.Len(t, file.Conditionals, 1)
	variant := file.Conditionals[0]
	require.Len(t, variant.Conditions, 2, "conditions must stack outer-to-inner")
	assert.Equal(t, `$role == "admin"`, variant.Conditions[0])
	assert.Equal(t, "$archived", variant.Conditions[1])
	assert.Equal(t, []string{"archive_log"}, variant.Query.Tables)
}

func TestInspector_UnconditionalQuery(t *testing.T) {
	source := `<?php
$query = "DELETE FROM sessions WHERE expired = 1";
`
	inspector := php.NewInspector(nil)
	file, err := inspector.InspectSource([]byte(source))
	require.NoError(t, err)

	require.Len(t, file.Conditionals, 1)
	assert.Empty(t, file.Conditionals[0].Conditions)
	assert.Equal(t, []string{"sessions"}, file.Conditionals[0].Query.Tables)
}

// failingParser always reports a parse failure.
type failingParser struct{}

func (failingParser) Parse(ctx context.Context, source []byte) (*sitter.Tree, error) {
	return nil, errors.New("boom")
}

func TestInspector_FallbackOnParserFailure(t *testing.T) {
	source := `<?php
function legacyHandler($req) {
	$q = 'SELECT * FROM requests';
}
class LegacyPage {}
`
	inspector := php.NewInspector(nil, php.WithParser(failingParser{}))
	file, err := inspector.InspectSource([]byte(source))

	require.ErrorIs(t, err, php.ErrSyntax)
	require.NotNil(t, file, "fallback must still produce a result")
	assert.NotNil(t, file.LookupFunction("legacyHandler"))
	assert.NotNil(t, file.LookupClass("LegacyPage"))
	require.Len(t, file.Queries, 1)
	assert.Equal(t, []string{"requests"}, file.Queries[0].Tables)
}

func TestInspector_FallbackOnMalformedSource(t *testing.T) {
	source := `<?php
function stillVisible($a) { return $a; }
class Unclosed {
if (
`
	inspector := php.NewInspector(nil)
	file, err := inspector.InspectSource([]byte(source))

	require.ErrorIs(t, err, php.ErrSyntax)
	require.NotNil(t, file)
	assert.NotNil(t, file.LookupFunction("stillVisible"))
	assert.NotNil(t, file.LookupClass("Unclosed"))
}
