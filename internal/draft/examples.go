package draft

const v2Instruction = `Eres un redactor de atestados de la policía española. A partir del dictado de los agentes redactas el cuerpo de una Comparecencia de Funcionarios.

Reglas:
- Registro formal, impersonal y objetivo, en tercera persona del plural ("los agentes actuantes", "observan", "proceden").
- Usa exclusivamente los datos del dictado, las filiaciones, los objetos y las fichas. No inventes nombres, documentos, lugares ni cantidades.
- No incluyas fechas ni horas; se consignan en otra parte del atestado.
- No incluyas títulos, encabezados ni secciones (por ejemplo "COMPARECENCIA", "HECHOS" o "DILIGENCIA").
- No incluyas fórmulas de cierre ni firmas (por ejemplo "Y para que conste", "se extiende la presente" o "firman").
- Cada párrafo empieza por "Que" y recoge un hecho, en orden cronológico.
- Cuando se indique una sustitución de identidad, escribe los datos de la ficha tal como figuran, sin huecos ni añadidos.
- Salida: solo párrafos HTML <p>...</p>, sin Markdown ni bloques de código.`

var v2Examples = []Example{
	{
		Input: `Texto dictado:
"""
estábamos de patrulla por la calle Mayor y vimos a un hombre forzando la puerta de un coche aparcado, le dimos el alto, el llamado Pedro, se puso nervioso y llevaba un destornillador en la mano, lo detuvimos y le leímos los derechos
"""

Filiaciones: []
Objetos: [{"tipo":"destornillador","cantidad":1}]
Fichas resueltas: ["Pedro Gómez Ruiz, con DNI 12345678Z, nacido en Toledo el 03/05/1985, hijo de Antonio y de María"]

Sustitución de identidades:
- Sustituye «el llamado Pedro» y cualquier otra mención a «Pedro» por: «Pedro Gómez Ruiz, con DNI 12345678Z, nacido en Toledo el 03/05/1985, hijo de Antonio y de María». Usa solo los datos de la ficha «Pedro Gómez Ruiz, con DNI 12345678Z, nacido en Toledo el 03/05/1985, hijo de Antonio y de María»; no añadas datos que no figuren en ella ni dejes huecos.
Cualquier otra persona sin ficha coincidente se menciona tal como aparece en el dictado.

Redacta ahora el cuerpo de la comparecencia siguiendo las reglas y el estilo de los ejemplos.`,
		Output: `<p>Que los agentes actuantes, encontrándose de servicio de patrulla uniformada por la calle Mayor, observan a un varón manipulando la puerta de un vehículo estacionado en la vía pública.</p>
<p>Que, tras darle el alto, el varón queda identificado como Pedro Gómez Ruiz, con DNI 12345678Z, nacido en Toledo el 03/05/1985, hijo de Antonio y de María, quien muestra una actitud nerviosa y porta en la mano un destornillador.</p>
<p>Que los agentes proceden a la detención de Pedro Gómez Ruiz, informándole de los hechos que se le imputan y de los derechos que le asisten como persona detenida.</p>`,
	},
	{
		Input: `Texto dictado:
"""
en un control en la rotonda paramos una furgoneta blanca, el conductor no llevaba papeles, al cachearlo le encontramos en el bolsillo dos bolsitas con una sustancia blanca y ciento cincuenta euros en billetes pequeños, se le intervino todo
"""

Filiaciones: [{"rol":"conductor","documentacion":"no aporta"}]
Objetos: [{"tipo":"bolsita con sustancia blanca","cantidad":2},{"tipo":"dinero en efectivo","importe":"150 euros"}]
Fichas resueltas: []

Redacta ahora el cuerpo de la comparecencia siguiendo las reglas y el estilo de los ejemplos.`,
		Output: `<p>Que los agentes actuantes, con ocasión de un control preventivo establecido en la rotonda, dan el alto a una furgoneta de color blanco.</p>
<p>Que el conductor del vehículo no aporta documentación alguna que permita su identificación.</p>
<p>Que, practicado un cacheo superficial, se le hallan en un bolsillo dos bolsitas que contienen una sustancia de color blanco, así como la cantidad de ciento cincuenta euros fraccionada en billetes de pequeño valor.</p>
<p>Que los agentes proceden a la intervención de la sustancia y del dinero hallados.</p>`,
	},
}
