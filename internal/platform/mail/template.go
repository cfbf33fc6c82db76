// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

//go:embed templates/*
var templateFS embed.FS

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt"))
)

// ActivationSubject is the subject line of the activation email.
const ActivationSubject = "Account Activation"

// ActivationData feeds the activation templates.
type ActivationData struct {
	Name      string
	Code      string
	ExpiresIn string
}

// RenderActivation builds the activation email addressed to "to".
func RenderActivation(to string, data ActivationData) (Message, error) {
	var html, text bytes.Buffer

	if err := htmlTemplates.ExecuteTemplate(&html, "activation.html", data); err != nil {
		return Message{}, fmt.Errorf("mail: failed to render activation html: %w", err)
	}
	if err := textTemplates.ExecuteTemplate(&text, "activation.txt", data); err != nil {
		return Message{}, fmt.Errorf("mail: failed to render activation text: %w", err)
	}

	return Message{
		To:      to,
		Subject: ActivationSubject,
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
