package rag

// User-facing strings per ISO 639-1 code. Unknown codes fall back to English.

var cannotAnswerMessages = map[string]string{
	"EN": "I cannot answer this question based on the available documents.",
	"IT": "Non posso rispondere a questa domanda in base ai documenti disponibili.",
	"DE": "Ich kann diese Frage anhand der verfügbaren Dokumente nicht beantworten.",
	"FR": "Je ne peux pas répondre à cette question sur la base des documents disponibles.",
	"ES": "No puedo responder a esta pregunta basándome en los documentos disponibles.",
}

var genericErrorMessages = map[string]string{
	"EN": "Something went wrong while generating the answer. Please try again.",
	"IT": "Si è verificato un errore durante la generazione della risposta. Riprova.",
	"DE": "Bei der Erstellung der Antwort ist ein Fehler aufgetreten. Bitte versuchen Sie es erneut.",
	"FR": "Une erreur s'est produite lors de la génération de la réponse. Veuillez réessayer.",
	"ES": "Se produjo un error al generar la respuesta. Inténtalo de nuevo.",
}

var languageNames = map[string]string{
	"EN": "English",
	"IT": "Italian",
	"DE": "German",
	"FR": "French",
	"ES": "Spanish",
}

var sourcesLabels = map[string]string{
	"EN": "Sources",
	"IT": "Fonti",
	"DE": "Quellen",
	"FR": "Sources",
	"ES": "Fuentes",
}

func localized(table map[string]string, lang string) string {
	if msg, ok := table[lang]; ok {
		return msg
	}
	return table["EN"]
}

// cannotAnswerMessage is the terminal empty-pool response in the user's language.
func cannotAnswerMessage(lang string) string { return localized(cannotAnswerMessages, lang) }

// genericErrorMessage masks generation failures in the user's language.
func genericErrorMessage(lang string) string { return localized(genericErrorMessages, lang) }

// sourcesLabel heads the source list appended to answers.
func sourcesLabel(lang string) string { return localized(sourcesLabels, lang) }

// languageName is the English name of a language code, used in prompts.
func languageName(lang string) string { return localized(languageNames, lang) }
