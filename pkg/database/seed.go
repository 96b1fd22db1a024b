package database

import (
	"fmt"
	"istqb_study_backend/internal/model"
	"istqb_study_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type seedQuestion struct {
	text        string
	options     []string
	correct     int
	difficulty  model.Difficulty
	explanation string
}

type seedModule struct {
	title       string
	description string
	content     string
	minutes     int
	objectives  []string
	concepts    []string
	sections    []string
	questions   []seedQuestion
}

var seedModules = []seedModule{
	{
		title:       "1. Fundamentos de las Pruebas",
		description: "Introducción a los conceptos básicos de testing, terminología y principios fundamentales.",
		content:     "En este módulo aprenderás los 7 principios fundamentales del testing, la diferencia entre errores, defectos y fallos, y la importancia del testing en el desarrollo de software.",
		minutes:     45,
		objectives:  []string{"Explicar los siete principios del testing", "Distinguir error, defecto y fallo"},
		concepts:    []string{"error", "defecto", "fallo", "proceso de prueba"},
		sections:    []string{"¿Qué es el testing?", "Los siete principios", "Actividades y tareas de prueba"},
		questions: []seedQuestion{
			{
				text:        "¿Cuál de los siguientes es uno de los siete principios del testing?",
				options:     []string{"Las pruebas exhaustivas son posibles", "Las pruebas muestran la presencia de defectos", "Los defectos se distribuyen uniformemente", "Probar tarde ahorra tiempo"},
				correct:     1,
				difficulty:  model.DifficultyEasy,
				explanation: "Las pruebas pueden mostrar que hay defectos, pero no pueden demostrar que no los hay.",
			},
			{
				text:        "Una persona comete una equivocación que introduce un problema en el código. ¿Cómo se llama ese problema?",
				options:     []string{"Fallo", "Error", "Defecto", "Incidente"},
				correct:     2,
				difficulty:  model.DifficultyMedium,
				explanation: "El error humano produce un defecto en el código que, al ejecutarse, puede causar un fallo.",
			},
		},
	},
	{
		title:       "2. Testing a lo largo del Ciclo de Vida del Software",
		description: "Cómo se integra el testing en diferentes modelos de ciclo de vida del desarrollo.",
		content:     "Exploraremos cómo el testing se adapta a metodologías como Waterfall, Agile, y DevOps, y cómo las actividades de testing varían en cada fase.",
		minutes:     50,
		objectives:  []string{"Relacionar niveles de prueba con el ciclo de vida", "Describir las pruebas de confirmación y regresión"},
		concepts:    []string{"niveles de prueba", "tipos de prueba", "regresión"},
		sections:    []string{"Modelos de ciclo de vida", "Niveles de prueba", "Tipos de prueba", "Pruebas de mantenimiento"},
		questions: []seedQuestion{
			{
				text:        "¿Qué prueba verifica que un cambio no ha afectado a partes del sistema que no se modificaron?",
				options:     []string{"Prueba de confirmación", "Prueba de regresión", "Prueba de humo", "Prueba de aceptación"},
				correct:     1,
				difficulty:  model.DifficultyEasy,
				explanation: "La regresión detecta efectos secundarios no deseados de un cambio.",
			},
			{
				text:        "¿Qué nivel de prueba se centra en las interacciones entre componentes?",
				options:     []string{"Prueba de componente", "Prueba de integración", "Prueba de sistema", "Prueba de aceptación"},
				correct:     1,
				difficulty:  model.DifficultyMedium,
				explanation: "La prueba de integración se centra en interfaces e interacciones.",
			},
		},
	},
	{
		title:       "3. Técnicas de Testing Estático",
		description: "Revisiones, walkthroughs, inspecciones y análisis estático de código.",
		content:     "Aprende sobre las técnicas de testing que no requieren ejecutar el código, incluyendo revisiones formales e informales.",
		minutes:     40,
		objectives:  []string{"Explicar el valor de las pruebas estáticas", "Comparar tipos de revisión"},
		concepts:    []string{"revisión", "inspección", "análisis estático"},
		sections:    []string{"Fundamentos del testing estático", "Proceso de revisión"},
		questions: []seedQuestion{
			{
				text:        "¿Qué tipo de revisión es la más formal y está dirigida por un moderador formado?",
				options:     []string{"Revisión informal", "Walkthrough", "Revisión técnica", "Inspección"},
				correct:     3,
				difficulty:  model.DifficultyMedium,
				explanation: "La inspección sigue un proceso definido con roles y métricas.",
			},
			{
				text:        "¿Cuál es una ventaja del testing estático?",
				options:     []string{"Detecta defectos antes de ejecutar el código", "Mide el rendimiento en producción", "Sustituye a las pruebas dinámicas", "No requiere documentación"},
				correct:     0,
				difficulty:  model.DifficultyEasy,
				explanation: "Encontrar defectos temprano reduce el coste de corregirlos.",
			},
		},
	},
	{
		title:       "4. Técnicas de Diseño de Pruebas",
		description: "Técnicas de caja negra, caja blanca y basadas en la experiencia.",
		content:     "Domina las técnicas para diseñar casos de prueba efectivos, incluyendo partición de equivalencia, análisis de valores límite y más.",
		minutes:     60,
		objectives:  []string{"Aplicar partición de equivalencia", "Aplicar análisis de valores límite"},
		concepts:    []string{"caja negra", "caja blanca", "valores límite", "tabla de decisión"},
		sections:    []string{"Técnicas de caja negra", "Técnicas de caja blanca", "Técnicas basadas en la experiencia"},
		questions: []seedQuestion{
			{
				text:        "Un campo acepta valores de 1 a 100. Con análisis de valores límite de dos puntos, ¿qué conjunto es correcto?",
				options:     []string{"1, 100", "0, 1, 100, 101", "0, 50, 101", "1, 50, 100"},
				correct:     1,
				difficulty:  model.DifficultyHard,
				explanation: "Se prueban el límite y su vecino inválido a cada lado: 0, 1, 100 y 101.",
			},
			{
				text:        "¿Qué técnica se basa en la estructura interna del código?",
				options:     []string{"Partición de equivalencia", "Prueba exploratoria", "Cobertura de sentencias", "Tabla de decisión"},
				correct:     2,
				difficulty:  model.DifficultyEasy,
				explanation: "La cobertura de sentencias es una técnica de caja blanca.",
			},
		},
	},
	{
		title:       "5. Gestión de las Pruebas",
		description: "Planificación, estimación, monitoreo y control de las actividades de testing.",
		content:     "Aprende a crear planes de prueba, estimar esfuerzo, gestionar riesgos y reportar el progreso del testing.",
		minutes:     55,
		objectives:  []string{"Elaborar un plan de prueba", "Gestionar riesgos de producto y de proyecto"},
		concepts:    []string{"plan de prueba", "riesgo", "criterios de salida"},
		sections:    []string{"Planificación", "Monitoreo y control", "Gestión de riesgos", "Gestión de defectos"},
		questions: []seedQuestion{
			{
				text:        "¿Qué documento define cuándo se puede dar por finalizada una actividad de prueba?",
				options:     []string{"Criterios de salida", "Informe de defectos", "Matriz de trazabilidad", "Caso de prueba"},
				correct:     0,
				difficulty:  model.DifficultyEasy,
				explanation: "Los criterios de salida se definen en la planificación.",
			},
			{
				text:        "Un requisito de rendimiento mal implementado que afecta al usuario final es un riesgo de...",
				options:     []string{"Proyecto", "Producto", "Proceso", "Organización"},
				correct:     1,
				difficulty:  model.DifficultyMedium,
				explanation: "Los riesgos de producto afectan a la calidad del producto entregado.",
			},
		},
	},
	{
		title:       "6. Herramientas para el Testing",
		description: "Clasificación y uso de herramientas de apoyo al testing.",
		content:     "Conoce las diferentes categorías de herramientas de testing y cómo pueden mejorar la eficiencia y efectividad de tus pruebas.",
		minutes:     35,
		objectives:  []string{"Clasificar herramientas de prueba", "Identificar riesgos de la automatización"},
		concepts:    []string{"automatización", "herramienta de gestión", "proyecto piloto"},
		sections:    []string{"Tipos de herramientas", "Introducción de una herramienta"},
		questions: []seedQuestion{
			{
				text:        "¿Cuál es un riesgo habitual de la automatización de pruebas?",
				options:     []string{"Expectativas poco realistas", "Menor repetibilidad", "Menos información objetiva", "Ejecución más lenta"},
				correct:     0,
				difficulty:  model.DifficultyMedium,
				explanation: "Es frecuente sobrestimar los beneficios y subestimar el esfuerzo.",
			},
			{
				text:        "¿Cuál es el propósito de un proyecto piloto al introducir una herramienta?",
				options:     []string{"Sustituir la formación", "Evaluar cómo encaja la herramienta en la organización", "Comprar licencias", "Eliminar las pruebas manuales"},
				correct:     1,
				difficulty:  model.DifficultyEasy,
				explanation: "El piloto aporta conocimiento y ajusta procesos antes del despliegue.",
			},
		},
	},
}

func buildQuestion(moduleID string, sectionID *string, q seedQuestion) model.Question {
	opts := make([]model.Option, len(q.options))
	for i, text := range q.options {
		opts[i] = model.Option{
			ID:        fmt.Sprintf("opt-%c", 'a'+i),
			Text:      text,
			IsCorrect: i == q.correct,
		}
		if i == q.correct {
			opts[i].Explanation = q.explanation
		}
	}
	return model.Question{
		ModuleID:    moduleID,
		SectionID:   sectionID,
		Text:        q.text,
		Options:     opts,
		Difficulty:  q.difficulty,
		Explanation: q.explanation,
	}
}

// Seed 写入示例模块、题目和测验，已有模块时跳过
func Seed(db *gorm.DB, passingScore int) error {
	var count int64
	if err := db.Model(&model.Module{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var finalExamIDs []string

		for i, sm := range seedModules {
			module := model.Module{
				Title:              sm.title,
				Description:        sm.description,
				Content:            sm.content,
				Order:              i + 1,
				EstimatedTime:      sm.minutes,
				LearningObjectives: sm.objectives,
				KeyConcepts:        sm.concepts,
			}
			for j, title := range sm.sections {
				module.Sections = append(module.Sections, model.Section{
					Title: title,
					Order: j + 1,
				})
			}
			if err := tx.Create(&module).Error; err != nil {
				return err
			}

			var questionIDs []string
			for j, sq := range sm.questions {
				var sectionID *string
				if j < len(module.Sections) {
					sectionID = &module.Sections[j].ID
				}
				q := buildQuestion(module.ID, sectionID, sq)
				q.Topic = sm.title
				if err := tx.Create(&q).Error; err != nil {
					return err
				}
				questionIDs = append(questionIDs, q.ID)
			}
			finalExamIDs = append(finalExamIDs, questionIDs...)

			moduleID := module.ID
			practice := model.Quiz{
				Title:                  fmt.Sprintf("Práctica: %s", sm.title),
				Description:            sm.description,
				ModuleID:               &moduleID,
				QuizType:               model.QuizPractice,
				QuestionIDs:            questionIDs,
				PassingScore:           passingScore,
				RandomizeQuestions:     true,
				RandomizeOptions:       true,
				ShowResultsImmediately: true,
			}
			if err := tx.Create(&practice).Error; err != nil {
				return err
			}
		}

		timeLimit := 60
		exam := model.Quiz{
			Title:        "Examen final de práctica ISTQB Foundation",
			Description:  "Preguntas de todos los módulos. Los resultados se consultan en el historial.",
			QuizType:     model.QuizFinalExam,
			QuestionIDs:  finalExamIDs,
			TimeLimit:    &timeLimit,
			PassingScore: passingScore,
			// 结果只在历史记录中查看
			RandomizeQuestions: true,
		}
		return tx.Create(&exam).Error
	})
	if err != nil {
		return err
	}

	logger.Log.Info("Seed data created",
		zap.Int("modules", len(seedModules)),
		zap.Int("passing_score", passingScore),
	)
	return nil
}
