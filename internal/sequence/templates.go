package sequence

import (
	"fmt"
	"strings"

	"leadflow_backend/internal/email"
)

// Language selects the message set for a recipient.
type Language string

// Supported languages; anything else falls back to English.
const (
	LangEN Language = "en"
	LangES Language = "es"
)

// ParseLanguage coerces a stored language value to a supported Language.
func ParseLanguage(value string) Language {
	if strings.EqualFold(strings.TrimSpace(value), string(LangES)) {
		return LangES
	}
	return LangEN
}

// Content is the rendered body of one message.
type Content struct {
	Text        string
	HTML        string
	Attachments []email.Attachment
}

// Template is one step of a sequence. Render must be a pure function of the
// recipient name: deterministic and side-effect-free, so content can be bound
// at schedule time.
type Template struct {
	Subject string
	Render  func(name string) Content
}

// ConfirmCall is the immediate "confirm your call" email sent by the
// automation trigger, outside the multi-step sequence.
func ConfirmCall(lang Language, bookingLink string) Template {
	if lang == LangES {
		return Template{
			Subject: "Confirma tu llamada de descubrimiento",
			Render: func(name string) Content {
				greeting := greet("Hola", name, "")
				text := fmt.Sprintf(
					"%s,\n\nGracias por tu interés. Hemos reservado un espacio de 30 minutos para conocerte.\n\nConfirma o cambia el horario aquí: %s\n\nEncontrarás una invitación de calendario adjunta.",
					greeting, bookingLink)
				return Content{Text: text, HTML: paragraphs(text, bookingLink)}
			},
		}
	}

	return Template{
		Subject: "Confirm your discovery call",
		Render: func(name string) Content {
			greeting := greet("Hi", name, "there")
			body := fmt.Sprintf(
				"%s,\n\nThanks for your interest. We've set aside a 30-minute slot to learn more about your goals.\n\nConfirm or reschedule here: %s\n\nA calendar invitation is attached.",
				greeting, bookingLink)
			return Content{Text: body, HTML: paragraphs(body, bookingLink)}
		},
	}
}

// EmailNurture returns the three-step follow-up email sequence.
func EmailNurture(lang Language, bookingLink string) []Template {
	if lang == LangES {
		return []Template{
			{
				Subject: "Tu siguiente paso",
				Render: func(name string) Content {
					body := fmt.Sprintf(
						"%s,\n\nRecibimos tu solicitud de precalificación. El siguiente paso es una llamada corta para responder tus preguntas.\n\nReserva tu horario: %s",
						greet("Hola", name, ""), bookingLink)
					return Content{Text: body, HTML: paragraphs(body, bookingLink)}
				},
			},
			{
				Subject: "¿Tienes preguntas?",
				Render: func(name string) Content {
					body := fmt.Sprintf(
						"%s,\n\nSabemos que dar este paso genera preguntas: inversión, tiempos, apoyo. En la llamada cubrimos todo.\n\nElige un horario: %s",
						greet("Hola", name, ""), bookingLink)
					return Content{Text: body, HTML: paragraphs(body, bookingLink)}
				},
			},
			{
				Subject: "Último recordatorio",
				Render: func(name string) Content {
					body := fmt.Sprintf(
						"%s,\n\nNo queremos insistir: este es nuestro último recordatorio. Si el momento no es ahora, no pasa nada.\n\nSi sí lo es, reserva aquí: %s",
						greet("Hola", name, ""), bookingLink)
					return Content{Text: body, HTML: paragraphs(body, bookingLink)}
				},
			},
		}
	}

	return []Template{
		{
			Subject: "Your next step",
			Render: func(name string) Content {
				body := fmt.Sprintf(
					"%s,\n\nWe received your prequalification request. The next step is a short call to answer your questions and see if this is a fit.\n\nGrab a time: %s",
					greet("Hi", name, "there"), bookingLink)
				return Content{Text: body, HTML: paragraphs(body, bookingLink)}
			},
		},
		{
			Subject: "Questions about the process?",
			Render: func(name string) Content {
				body := fmt.Sprintf(
					"%s,\n\nMost people at this stage are weighing investment, timing, and support. The call covers all three, with no pressure and straight answers.\n\nPick a slot: %s",
					greet("Hi", name, "there"), bookingLink)
				return Content{Text: body, HTML: paragraphs(body, bookingLink)}
			},
		},
		{
			Subject: "Last nudge from us",
			Render: func(name string) Content {
				body := fmt.Sprintf(
					"%s,\n\nThis is our last reminder. If now isn't the right time, no hard feelings.\n\nIf it is, book here: %s",
					greet("Hi", name, "there"), bookingLink)
				return Content{Text: body, HTML: paragraphs(body, bookingLink)}
			},
		},
	}
}

// SMSNurture returns the three-step follow-up SMS sequence. SMS content is
// text-only; HTML and attachments stay empty.
func SMSNurture(lang Language, bookingLink string) []Template {
	if lang == LangES {
		return []Template{
			{Subject: "sms-1", Render: func(name string) Content {
				return Content{Text: fmt.Sprintf("%s, gracias por tu solicitud. Reserva tu llamada aquí: %s", greet("Hola", name, ""), bookingLink)}
			}},
			{Subject: "sms-2", Render: func(name string) Content {
				return Content{Text: fmt.Sprintf("¿Aún interesado? Quedan horarios esta semana: %s", bookingLink)}
			}},
			{Subject: "sms-3", Render: func(name string) Content {
				return Content{Text: fmt.Sprintf("Último recordatorio: reserva tu llamada cuando quieras: %s", bookingLink)}
			}},
		}
	}

	return []Template{
		{Subject: "sms-1", Render: func(name string) Content {
			return Content{Text: fmt.Sprintf("%s, thanks for your request! Book your call here: %s", greet("Hi", name, "there"), bookingLink)}
		}},
		{Subject: "sms-2", Render: func(name string) Content {
			return Content{Text: fmt.Sprintf("Still interested? A few slots are open this week: %s", bookingLink)}
		}},
		{Subject: "sms-3", Render: func(name string) Content {
			return Content{Text: fmt.Sprintf("Last reminder from us. Book any time: %s", bookingLink)}
		}},
	}
}

func greet(prefix, name, fallback string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		if fallback == "" {
			return prefix
		}
		return prefix + " " + fallback
	}
	return prefix + " " + trimmed
}

func paragraphs(text, bookingLink string) string {
	var b strings.Builder
	for _, para := range strings.Split(text, "\n\n") {
		escaped := strings.ReplaceAll(para, "\n", "<br>")
		if bookingLink != "" && strings.Contains(para, bookingLink) {
			escaped = strings.ReplaceAll(escaped, bookingLink,
				fmt.Sprintf(`<a href="%s">%s</a>`, bookingLink, bookingLink))
		}
		b.WriteString("<p>" + escaped + "</p>")
	}
	return b.String()
}
