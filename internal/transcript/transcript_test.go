package transcript

import "testing"

func schemaFixture(name string) map[string]any {
	return map[string]any{
		"name":        name,
		"description": "a tool",
		"schema": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"command": map[string]any{"type": "string"},
			},
		},
	}
}

func TestSchemaDigestOrderIndependent(t *testing.T) {
	a := []map[string]any{schemaFixture("bash"), schemaFixture("read")}
	b := []map[string]any{schemaFixture("read"), schemaFixture("bash")}
	if SchemaDigest(a) != SchemaDigest(b) {
		t.Fatal("digest should not depend on ordering")
	}
}

func TestSchemaDigestSensitiveToName(t *testing.T) {
	a := []map[string]any{schemaFixture("bash")}
	b := []map[string]any{schemaFixture("shell")}
	if SchemaDigest(a) == SchemaDigest(b) {
		t.Fatal("renaming a tool should change the digest")
	}
}

func TestSchemaDigestIgnoresDescription(t *testing.T) {
	a := schemaFixture("bash")
	b := schemaFixture("bash")
	b["description"] = "different words"
	if SchemaDigest([]map[string]any{a}) != SchemaDigest([]map[string]any{b}) {
		t.Fatal("digest should only cover (name, schema) pairs")
	}
}

func TestTextConcatenatesSteps(t *testing.T) {
	tr := &Transcript{User: "hi"}
	tr.AppendStep(Step{GeneratorOutput: "Hello"})
	tr.AppendStep(Step{GeneratorOutput: ", world"})
	if tr.Text() != "Hello, world" {
		t.Fatalf("unexpected text: %q", tr.Text())
	}
}
