package ai

// Prompt templates sent to the AI provider. Both providers share them; the
// providers only differ in transport.

const recipeExtractionSystem = `You are a web crawler / price comparison assistant that
reads recipes online, extracts the list of ingredients and quantities, and returns only valid JSON.

Required fields:
- title: recipe name
- description: brief description
- servings: number of servings (integer or null)
- prep_time: preparation time (string or null)
- cook_time: cooking time (string or null)
- ingredients: array of ingredient strings
- instructions: array of instruction steps
- image_url: main recipe image URL (or null)`

const recipeExtractionPrompt = `Extract recipe information from this HTML content and return as JSON:

HTML content:
%s

Return only valid JSON, no additional text.`

const ingredientNormalizationSystem = `You are an expert at parsing cooking ingredients. Return only valid JSON.`

const ingredientNormalizationPrompt = `Parse these ingredient texts into structured data. For each ingredient, extract:
- name: clean ingredient name (e.g., "flour", "chicken breast")
- quantity: numeric amount (float or null)
- unit: measurement unit (e.g., "cup", "tbsp", "kg", "g", "lb") or null
- original_text: the original input text

Ingredients:
%s

Return as a JSON array with one object per ingredient, no additional text.`
