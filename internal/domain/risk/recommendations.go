package risk

const maxRecommendations = 4

// Recommend lists follow-up actions for an assessment, most urgent first.
func Recommend(a Assessment) []string {
	var out []string
	p := a.Probability

	if p > 0.7 {
		out = append(out,
			"CONTACTO INMEDIATO: Llamar al paciente para confirmar asistencia",
			"RECORDATORIO MÚLTIPLE: SMS + Email + App 24h antes",
			"NOTIFICACIÓN ALTA PRIORIDAD: Seguimiento especial requerido",
			"COORDINACIÓN: Informar al personal médico del riesgo",
		)
	}
	if p > 0.5 {
		out = append(out,
			"RECORDATORIO PROACTIVO: Email confirmatorio 48h antes",
			"SMS AUTOMÁTICO: Recordatorio 24h antes con opción de confirmación",
			"VERIFICACIÓN: Confirmar datos de contacto actualizados",
		)
	}
	if v, ok := a.Value(FactorHistory); ok && v > 50 {
		out = append(out, "PACIENTE CRÍTICO: Historial de ausencias - protocolo especial activado")
	}
	if v, ok := a.Value(FactorDay); ok && v > 60 {
		out = append(out, "DÍA DE ALTO AUSENTISMO: Confirmación adicional y horario flexible sugerido")
	}
	if v, ok := a.Value(FactorHour); ok && v > 60 {
		out = append(out, "HORARIO CRÍTICO: Ofrecer cambio de horario si es posible")
	}

	if len(out) == 0 {
		out = append(out,
			"RIESGO BAJO: Seguimiento normal según protocolo estándar",
			"MONITOREO: Continuar con recordatorios automáticos",
		)
	}

	if len(out) > maxRecommendations {
		out = out[:maxRecommendations]
	}
	return out
}
