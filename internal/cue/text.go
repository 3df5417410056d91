package cue

import "sort"

// Message is a localizable instruction key.
type Message string

const (
	MsgNone             Message = ""
	MsgStepBack         Message = "step-back"
	MsgChooseExercise   Message = "choose-exercise"
	MsgHoldHandsUp      Message = "hold-hands-up"
	MsgRaiseHands       Message = "raise-hands"
	MsgGestureDone      Message = "gesture-done"
	MsgGestureBroken    Message = "gesture-broken"
	MsgRelaxArms        Message = "relax-arms"
	MsgExtendArms       Message = "extend-arms"
	MsgHoldPose         Message = "hold-pose"
	MsgPoseBroken       Message = "pose-broken"
	MsgExerciseComplete Message = "exercise-complete"
)

// DefaultLang is the language used when none is configured.
const DefaultLang = "es"

var texts = map[Message]map[string]string{
	MsgStepBack: {
		"es": "Aléjate del sensor hasta que tu cabeza entre cómodamente en su rango",
		"en": "Step back from the sensor until your head fits comfortably in view",
	},
	MsgChooseExercise: {
		"es": "Elige un ejercicio: mano a un lado para cambiar, sobre la cabeza para empezar",
		"en": "Choose an exercise: hand to a side to switch, above your head to start",
	},
	MsgHoldHandsUp: {
		"es": "Mantén tus brazos paralelos al suelo y sube las manos",
		"en": "Keep your arms parallel to the floor and raise your hands",
	},
	MsgRaiseHands: {
		"es": "Sube las manos hasta el final de las flechas",
		"en": "Raise your hands to the end of the arrows",
	},
	MsgGestureDone: {
		"es": "¡Gesto completado!",
		"en": "Gesture complete!",
	},
	MsgGestureBroken: {
		"es": "Has bajado las manos, vuelve a la posición inicial",
		"en": "Your hands dropped, return to the starting position",
	},
	MsgRelaxArms: {
		"es": "Relaja los brazos a lo largo del cuerpo",
		"en": "Relax your arms by your sides",
	},
	MsgExtendArms: {
		"es": "Extiende los brazos en cruz",
		"en": "Stretch your arms out to the sides",
	},
	MsgHoldPose: {
		"es": "Mantén la posición",
		"en": "Hold the position",
	},
	MsgPoseBroken: {
		"es": "Has perdido la posición, relaja los brazos y vuelve a empezar",
		"en": "Position lost, relax your arms and start again",
	},
	MsgExerciseComplete: {
		"es": "¡Ejercicio completado!",
		"en": "Exercise complete!",
	},
}

// Text returns the text for m in lang, falling back to DefaultLang and then
// to the key itself.
func Text(m Message, lang string) string {
	byLang, ok := texts[m]
	if !ok {
		return string(m)
	}
	if s, ok := byLang[lang]; ok {
		return s
	}
	return byLang[DefaultLang]
}

// Messages returns every known message key, sorted.
func Messages() []Message {
	keys := make([]Message, 0, len(texts))
	for k := range texts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
