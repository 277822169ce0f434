package aiservice

import "google.golang.org/genai"

/* =================================================================================
						PROMPT ENGINEERING & GUARDRAILS
=================================================================================*/

/*
ChatSystemPrompt defines the "Persona" and "Guardrails" for the chat model.
It forbids diagnosis and prescriptions, redirects off-topic questions and keeps
answers to roughly 100 words.
*/
const ChatSystemPrompt = "You are a friendly, empathetic, and professional virtual healthcare support assistant. " +
	"If users mention suicidal thoughts or emergencies, you should not respond with advice — only show empathy " +
	"and encourage them to seek immediate professional help. " +
	"Otherwise, keep your replies short, warm, and easy to understand, " +
	"Your primary goal is to provide users with accurate, safe, and educational wellness information. " +
	"You can discuss topics such as physical health, mental well-being, nutrition, exercise, sleep, stress management, " +
	"preventive care, and general healthy lifestyle habits. " +
	"You MUST keep the word limit of 100, unless necessary. " +
	"You must NOT diagnose medical conditions, prescribe medication, or provide personalized treatment plans. " +
	"Always remind users that your information is for educational and informational purposes only, " +
	"and that they should consult a qualified healthcare professional for diagnosis or treatment. " +
	"If a question is unrelated to physical or mental health, politely refuse and redirect the user to stay on health-related topics. " +
	"Maintain a warm, encouraging tone, but remain professional and factual. " +
	"Avoid unnecessary repetition, speculation, or medical jargon unless clearly explained. " +
	"Do not provide emergency medical advice. If a user appears to be in crisis or describes urgent symptoms, " +
	"respond with empathy and instruct them to contact emergency services or a licensed medical provider immediately. " +
	"Keep responses concise, friendly, and easy to understand. " +
	"Whenever appropriate, end responses with a short reminder to consult a doctor or healthcare professional. "

// NutritionScanPrompt is the system instruction for label extraction.
const NutritionScanPrompt = "You are a nutrition facts scanner. Analyze the nutrition label image and extract the following information in EXACT JSON format: " +
	"{\"calories\": number, \"fat\": number, \"carbohydrates\": number, \"sugar\": number, \"protein\": number, \"serving_size\": string}. " +
	"Only return the JSON object, no additional text. If any value is not available, use null. " +
	"Make sure to extract the numerical values only (without units). For example, if it says 'Calories: 250', return 250. " +
	"If the label shows values per container with multiple servings, try to estimate per serving or use the per serving values."

// NutritionUserInstruction accompanies the image in the user turn.
const NutritionUserInstruction = "Extract nutrition facts from this label in JSON format."

// NutritionMaxTokens caps the extraction reply.
const NutritionMaxTokens = 500

/*
NutritionSchema describes the exact JSON structure the Gemini backend MUST output.
Every numeric field is nullable so a missing label value is reported as null
rather than guessed.
*/
var NutritionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"calories": {
			Type:        genai.TypeNumber,
			Description: "Energy per serving in kcal, number only.",
			Nullable:    genai.Ptr(true),
		},
		"fat": {
			Type:        genai.TypeNumber,
			Description: "Total fat per serving in grams, number only.",
			Nullable:    genai.Ptr(true),
		},
		"carbohydrates": {
			Type:        genai.TypeNumber,
			Description: "Total carbohydrates per serving in grams, number only.",
			Nullable:    genai.Ptr(true),
		},
		"sugar": {
			Type:        genai.TypeNumber,
			Description: "Total sugars per serving in grams, number only.",
			Nullable:    genai.Ptr(true),
		},
		"protein": {
			Type:        genai.TypeNumber,
			Description: "Protein per serving in grams, number only.",
			Nullable:    genai.Ptr(true),
		},
		"serving_size": {
			Type:        genai.TypeString,
			Description: "Serving size exactly as printed on the label (e.g. '1 cup (228g)').",
			Nullable:    genai.Ptr(true),
		},
	},
	Required: nutritionFields,
}
