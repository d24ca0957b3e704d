package anthropic

import "encoding/json"

// Schema helpers for building JSON Schema definitions rendered into the
// extraction instructions.

// ObjectSchema creates an object schema with the given properties.
func ObjectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// StringProperty creates a string property with optional description.
func StringProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// StringEnumProperty creates a string property with allowed values.
func StringEnumProperty(description string, values ...string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
		"enum":        values,
	}
}

// NumberProperty creates a number property with optional description.
func NumberProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": description,
	}
}

// ArrayProperty creates an array property with the given item type.
func ArrayProperty(description string, itemType map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": description,
		"items":       itemType,
	}
}

// extractionSchema describes the trailing JSON block the model is asked
// to append after its response.
func extractionSchema() map[string]interface{} {
	memoryItem := ObjectSchema(map[string]interface{}{
		"content":    StringProperty("One fact about the user worth remembering, in third person"),
		"importance": NumberProperty("How important this fact is, 0 to 1"),
	}, "content")

	traitDelta := ObjectSchema(map[string]interface{}{
		"openness":            NumberProperty("Adjustment between -0.1 and 0.1"),
		"conscientiousness":   NumberProperty("Adjustment between -0.1 and 0.1"),
		"extraversion":        NumberProperty("Adjustment between -0.1 and 0.1"),
		"agreeableness":       NumberProperty("Adjustment between -0.1 and 0.1"),
		"neuroticism":         NumberProperty("Adjustment between -0.1 and 0.1"),
		"communication_style": StringEnumProperty("Only if it should change", "direct", "supportive", "analytical", "empathetic"),
		"emotional_state":     StringEnumProperty("Only if it should change", "stable", "anxious", "depressed", "excited", "confused"),
		"preferred_approach":  StringEnumProperty("Only if it should change", "cbt", "humanistic", "behavioral", "psychodynamic"),
	})

	return ObjectSchema(map[string]interface{}{
		"memories":    ArrayProperty("New facts about the user from this exchange, empty if none", memoryItem),
		"trait_delta": traitDelta,
		"emotion": StringEnumProperty("The emotion of the user's message",
			"neutral", "happy", "sad", "angry", "anxious", "excited", "confused", "frustrated"),
	})
}

// extractionInstructions renders the schema into the system prompt.
func extractionInstructions() string {
	rendered, _ := json.MarshalIndent(extractionSchema(), "", "  ")
	return "After your response, append a fenced ```json block matching this schema. " +
		"It is machine-read and never shown to the user:\n" + string(rendered)
}
